// Package assistant implements the rule-based chat pipeline: classify the
// query, rebuild the conversation context from history, and pick a canned
// reply from the knowledge base.
//
// The assistant holds no session state. Every call receives the full history
// and returns a new reply.
package assistant

import (
	"unicode/utf8"

	"github.com/avvvet/couponbuddy-assistant/internal/intent"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/prompts"
	"github.com/avvvet/couponbuddy-assistant/internal/ranking"
	"github.com/avvvet/couponbuddy-assistant/internal/rng"
	"github.com/avvvet/couponbuddy-assistant/internal/tokenizer"
)

// Queries shorter than this that fall through to general help get a
// conversational filler reply.
const shortQueryRunes = 10

// Options configures an Assistant. Zero fields get defaults.
type Options struct {
	Knowledge *prompts.KnowledgeBase
	Scorer    *ranking.Scorer
	Tokenizer *tokenizer.Tokenizer
	Rand      rng.Source
	PageData  PageDataProvider
}

// Assistant answers chat turns from the knowledge base. Copies made with
// WithPageData and WithCartTotal share everything else.
type Assistant struct {
	kb        *prompts.KnowledgeBase
	scorer    *ranking.Scorer
	tok       *tokenizer.Tokenizer
	rand      rng.Source
	pageData  PageDataProvider
	cartTotal *float64
}

// New creates an assistant, filling unset options with defaults
func New(opts Options) *Assistant {
	a := &Assistant{
		kb:       opts.Knowledge,
		scorer:   opts.Scorer,
		tok:      opts.Tokenizer,
		rand:     opts.Rand,
		pageData: opts.PageData,
	}
	if a.kb == nil {
		a.kb = prompts.Default()
	}
	if a.rand == nil {
		a.rand = rng.Default()
	}
	if a.scorer == nil {
		a.scorer = ranking.NewScorer(ranking.Options{ApplyRecencyBoost: true})
	}
	if a.tok == nil {
		a.tok = tokenizer.Default()
	}
	return a
}

// WithPageData returns a copy of a that reads page coupons from p.
func (a *Assistant) WithPageData(p PageDataProvider) *Assistant {
	cp := *a
	cp.pageData = p
	return &cp
}

// WithCartTotal returns a copy of a that starts every context from total.
// A dollar amount mentioned in the conversation still overrides it.
func (a *Assistant) WithCartTotal(total *float64) *Assistant {
	cp := *a
	cp.cartTotal = nil
	if total != nil {
		v := *total
		cp.cartTotal = &v
	}
	return &cp
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Text           string
	Classification intent.Classification
	Tokens         int
	Context        Context
}

// ProcessChat answers query given the prior history. The query's own cart
// total and code take precedence over the history, but its intent does not
// count as asked before.
func (a *Assistant) ProcessChat(query string, history []models.ChatMessage) Reply {
	cls := intent.ClassifyDetailed(query)

	c := a.historyContext(history)
	c.absorbCode(query)
	c.absorbCartTotal(query)
	a.applyPageData(&c)

	text := a.GenerateResponse(cls.Intent, c)

	if c.HasAskedBefore[cls.Intent] {
		alternatives := unused(a.render(cls.Intent, c), c.UsedResponses, text)
		if len(alternatives) > 0 {
			text = a.pick(alternatives, nil)
		}
	}

	if cls.Intent == intent.GeneralHelp && utf8.RuneCountInString(query) < shortQueryRunes {
		text = a.pick(a.kb.Conversational(), nil)
	}

	return Reply{
		Text:           text,
		Classification: cls,
		Tokens:         len(a.tok.Tokenize(query)),
		Context:        c,
	}
}

// historyContext is ExtractContext without page data.
func (a *Assistant) historyContext(messages []models.ChatMessage) Context {
	return a.WithPageData(nil).ExtractContext(messages)
}
