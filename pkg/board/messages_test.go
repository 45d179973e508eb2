package board

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/text/language"

	"taskboard/pkg/task"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code, msg string
		want      Code
	}{
		{"", "Task cost negative", CodeCostNegative},
		{"", "TASK COST NEGATIVE", CodeCostNegative},
		{"", "Task cost exceeds the maximum of 1000000", CodeCostTooHigh},
		{"", "Task name already exists", CodeNameDuplicate},
		{"", "Duplicate entry for taskName", CodeNameDuplicate},
		{"", "Task name is required", CodeNameRequired},
		{"", "taskName must not be blank", CodeNameRequired},
		{"", "Task cost is required", CodeCostRequired},
		{"", "dataLimit must not be null", CodeDueRequired},
		{"", "field is required", CodeFieldRequired},
		{"", "something exploded", CodeUnknown},
		{"", "", CodeUnknown},
		{"cost_negative", "whatever the text says", CodeCostNegative},
		{"NAME_DUPLICATE", "", CodeNameDuplicate},
		{"teapot", "Task cost negative", CodeCostNegative},
	}
	for _, tt := range tests {
		if got := Classify(tt.code, tt.msg); got != tt.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.code, tt.msg, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{nil, ""},
		{&task.RejectedError{Status: 400, Message: "Task cost negative"}, CodeCostNegative},
		{fmt.Errorf("create: %w", &task.RejectedError{Status: 409, Code: "name_duplicate"}), CodeNameDuplicate},
		{fmt.Errorf("post: %w", task.ErrUnreachable), CodeUnreachable},
		{fmt.Errorf("%w: %q", task.ErrInvalidCost, "x"), CodeInvalidCost},
		{errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Errorf("CodeOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestCatalogFailure(t *testing.T) {
	pt := NewCatalog(language.BrazilianPortuguese)

	n := pt.Failure(OpCreate, CodeCostNegative)
	if n.Kind != KindError || n.Title != "Erro ao cadastrar Tarefa" || n.Text != "O custo da tarefa não pode ser negativo." {
		t.Errorf("unexpected notice %+v", n)
	}

	n = pt.Failure(OpCreate, CodeUnknown)
	if n.Text != "Ocorreu um erro ao criar a task." {
		t.Errorf("unknown code should fall back to the generic text, got %q", n.Text)
	}

	n = pt.Failure(OpDelete, CodeUnreachable)
	if n.Title != "Erro de Conexão" || n.Text != "Não foi possível conectar ao servidor. Tente novamente mais tarde." {
		t.Errorf("unexpected unreachable notice %+v", n)
	}

	if n := pt.Failure(OpUpdate, CodeInvalidCost); n.Kind != KindWarning {
		t.Errorf("invalid cost should be a warning, got %s", n.Kind)
	}

	en := NewCatalog(language.AmericanEnglish)
	if n := en.Failure(OpUpdate, CodeNameDuplicate); n.Text != "A task with this name already exists." {
		t.Errorf("unexpected en text %q", n.Text)
	}
}

func TestCatalogSuccessAndPrompt(t *testing.T) {
	pt := NewCatalog(language.BrazilianPortuguese)
	if n := pt.Success(OpCreate); n.Kind != KindSuccess || n.Title != "Tarefa Criada!" {
		t.Errorf("unexpected success notice %+v", n)
	}
	p := pt.DeletePrompt()
	if p.Title != "Tem certeza?" || p.Confirm != "Sim, excluir!" || p.Cancel != "Cancelar" {
		t.Errorf("unexpected prompt %+v", p)
	}
	if got := NewCatalog(language.AmericanEnglish).Label("btn.save"); got != "Save" {
		t.Errorf("Label(btn.save) = %q", got)
	}
}

func TestCatalogLocales(t *testing.T) {
	tests := []struct {
		locale language.Tag
		want   string
	}{
		{language.BrazilianPortuguese, "Lista de Tarefas"},
		{language.Portuguese, "Lista de Tarefas"},
		{language.AmericanEnglish, "Task List"},
		{language.BritishEnglish, "Task List"},
		{language.French, "Lista de Tarefas"},
	}
	for _, tt := range tests {
		if got := NewCatalog(tt.locale).Label("title"); got != tt.want {
			t.Errorf("%s: Label(title) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestFormatterSharesCatalog(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	c := f.Catalog()
	if got := c.Label("btn.delete"); got != "Delete" {
		t.Errorf("Label(btn.delete) = %q", got)
	}
	if c.printer != f.printer {
		t.Error("catalog and formatter should resolve through one printer")
	}
}

func TestEveryCodeHasText(t *testing.T) {
	for _, tag := range Supported {
		c := NewCatalog(tag)
		for code := range knownCodes {
			if _, ok := c.lookup("code." + string(code)); !ok {
				t.Errorf("%s: no text for %s", tag, code)
			}
		}
		if _, ok := c.lookup("code." + string(CodeInvalidCost)); !ok {
			t.Errorf("%s: no text for %s", tag, CodeInvalidCost)
		}
	}
}
