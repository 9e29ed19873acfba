package service

import (
	"strings"
	"testing"

	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/registry"
)

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
	}
	for in, want := range tests {
		if got := string(stripCodeFence(in)); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDraftPromptListsKindsForThePaper(t *testing.T) {
	reg := registry.Default()
	writing := draftPrompt(reg, dto.DraftRequest{TestType: "writing", Topic: "cities", Sections: 2})
	if !strings.Contains(writing, "- writing_task2:") || strings.Contains(writing, "- mcq_single:") {
		t.Errorf("writing prompt lists the wrong kinds:\n%s", writing)
	}
	reading := draftPrompt(reg, dto.DraftRequest{TestType: "reading", Topic: "bees", Sections: 3})
	if !strings.Contains(reading, "- true_false_ng:") || strings.Contains(reading, "writing_task1") {
		t.Errorf("reading prompt lists the wrong kinds:\n%s", reading)
	}
	if !strings.Contains(reading, "answer_keys*") {
		t.Errorf("reading prompt does not mark answer keys:\n%s", reading)
	}
}
