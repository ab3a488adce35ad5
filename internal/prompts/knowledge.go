// Package prompts holds the assistant's canned responses.
package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avvvet/couponbuddy-assistant/internal/intent"
)

// KnowledgeBase is the fixed response data used by the response selector.
// It is read-only once built.
type KnowledgeBase struct {
	responses        map[intent.Intent][]string
	conversational   []string
	codeDescriptions map[string]string
}

// knowledgeFile is the YAML override format.
type knowledgeFile struct {
	Responses        map[string][]string `yaml:"responses"`
	Conversational   []string            `yaml:"conversational"`
	CodeDescriptions map[string]string   `yaml:"code_descriptions"`
}

// Default returns the built-in knowledge base.
func Default() *KnowledgeBase {
	kb := &KnowledgeBase{
		responses:        make(map[intent.Intent][]string, len(defaultResponses)),
		conversational:   append([]string(nil), defaultConversational...),
		codeDescriptions: make(map[string]string, len(defaultCodeDescriptions)),
	}
	for k, v := range defaultResponses {
		kb.responses[k] = append([]string(nil), v...)
	}
	for k, v := range defaultCodeDescriptions {
		kb.codeDescriptions[k] = v
	}
	return kb
}

// LoadKnowledgeBase reads a YAML file and layers it over the defaults.
// Response lists replace the built-in list for the same intent; code
// descriptions are merged.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	kb, err := ParseKnowledgeBase(data)
	if err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// ParseKnowledgeBase is LoadKnowledgeBase over raw YAML.
func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var f knowledgeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	kb := Default()
	for name, list := range f.Responses {
		if !intent.Valid(name) {
			return nil, fmt.Errorf("unknown intent %q", name)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("intent %q has no responses", name)
		}
		kb.responses[intent.Intent(name)] = list
	}
	if len(f.Conversational) > 0 {
		kb.conversational = f.Conversational
	}
	for code, desc := range f.CodeDescriptions {
		kb.codeDescriptions[strings.ToUpper(code)] = desc
	}
	return kb, nil
}

// Responses returns the list for i, or GeneralHelp's list for unknown intents.
func (kb *KnowledgeBase) Responses(i intent.Intent) []string {
	if list, ok := kb.responses[i]; ok && len(list) > 0 {
		return list
	}
	return kb.responses[intent.GeneralHelp]
}

// Conversational returns the filler-input replies.
func (kb *KnowledgeBase) Conversational() []string {
	if len(kb.conversational) == 0 {
		return []string{FallbackMessage}
	}
	return kb.conversational
}

// DescribeCode returns the description for code, or a generic sentence when
// the code is unknown. An empty code is described as "This code".
func (kb *KnowledgeBase) DescribeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if desc, ok := kb.codeDescriptions[code]; ok {
		return desc
	}
	if code == "" {
		code = "This code"
	}
	return code + " provides a special discount"
}
