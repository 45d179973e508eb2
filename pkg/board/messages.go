package board

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"taskboard/pkg/task"
)

// Code identifies a failure independently of the service's prose.
type Code string

const (
	CodeCostNegative  Code = "cost_negative"
	CodeNameDuplicate Code = "name_duplicate"
	CodeNameRequired  Code = "name_required"
	CodeCostRequired  Code = "cost_required"
	CodeDueRequired   Code = "due_required"
	CodeFieldRequired Code = "field_required"
	CodeCostTooHigh   Code = "cost_too_high"
	CodeInvalidCost   Code = "invalid_cost"
	CodeUnreachable   Code = "unreachable"
	CodeUnknown       Code = "unknown"
)

var knownCodes = map[Code]bool{
	CodeCostNegative:  true,
	CodeNameDuplicate: true,
	CodeNameRequired:  true,
	CodeCostRequired:  true,
	CodeDueRequired:   true,
	CodeFieldRequired: true,
	CodeCostTooHigh:   true,
}

// messageRule maps service messages containing every substring in all
// (case-insensitive) to a code. Only used when the service sends no code.
type messageRule struct {
	all  []string
	code Code
}

var messageRules = []messageRule{
	{all: []string{"cost", "negative"}, code: CodeCostNegative},
	{all: []string{"cost", "exceed"}, code: CodeCostTooHigh},
	{all: []string{"cost", "maximum"}, code: CodeCostTooHigh},
	{all: []string{"name", "already exists"}, code: CodeNameDuplicate},
	{all: []string{"duplicate"}, code: CodeNameDuplicate},
}

var requiredPhrases = []string{"required", "must not be null", "must not be blank", "must not be empty"}

var requiredFields = []struct {
	token string
	code  Code
}{
	{"name", CodeNameRequired},
	{"cost", CodeCostRequired},
	{"datalimit", CodeDueRequired},
	{"date", CodeDueRequired},
}

// Classify maps a service error to a Code. An explicit code wins; otherwise
// the message is matched against the rule table. Unmatched input is
// CodeUnknown.
func Classify(code, message string) Code {
	if c := Code(strings.ToLower(strings.TrimSpace(code))); knownCodes[c] {
		return c
	}
	msg := strings.ToLower(message)
	for _, r := range messageRules {
		if containsAll(msg, r.all) {
			return r.code
		}
	}
	for _, p := range requiredPhrases {
		if !strings.Contains(msg, p) {
			continue
		}
		for _, f := range requiredFields {
			if strings.Contains(msg, f.token) {
				return f.code
			}
		}
		return CodeFieldRequired
	}
	return CodeUnknown
}

// CodeOf classifies any error returned by a task.Service.
func CodeOf(err error) Code {
	var rej *task.RejectedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rej):
		return Classify(rej.Code, rej.Message)
	case errors.Is(err, task.ErrUnreachable):
		return CodeUnreachable
	case errors.Is(err, task.ErrInvalidCost):
		return CodeInvalidCost
	}
	return CodeUnknown
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// Kind is the severity of a Notice.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	}
	return "error"
}

// Notice is a transient message shown to the user.
type Notice struct {
	Kind  Kind
	Title string
	Text  string
	Code  Code
}

// Prompt is the text of a confirmation dialog.
type Prompt struct {
	Title   string
	Text    string
	Confirm string
	Cancel  string
}

// Catalog holds the user-facing texts of one locale.
type Catalog struct {
	printer *message.Printer
}

// NewCatalog returns the catalog for locale, falling back to Portuguese.
func NewCatalog(locale language.Tag) *Catalog {
	return NewFormatter(locale).Catalog()
}

// newPrinter resolves both texts and numbers. Unsupported locales print as
// the closest supported one.
func newPrinter(locale language.Tag) *message.Printer {
	return message.NewPrinter(MatchLocale(locale.String()), message.Catalog(texts))
}

func (c *Catalog) get(key string) string { return c.printer.Sprintf(key) }

// lookup reports whether key has a text; the printer echoes unknown keys.
func (c *Catalog) lookup(key string) (string, bool) {
	s := c.get(key)
	return s, s != key
}

// Label returns a UI label such as "col.name" or "btn.save".
func (c *Catalog) Label(key string) string { return c.get(key) }

// Success is the notice shown after op completed.
func (c *Catalog) Success(op Op) Notice {
	return Notice{
		Kind:  KindSuccess,
		Title: c.get(op.String() + ".ok.title"),
		Text:  c.get(op.String() + ".ok.text"),
	}
}

// Failure is the notice shown when op failed with code.
func (c *Catalog) Failure(op Op, code Code) Notice {
	n := Notice{Kind: KindError, Code: code}
	switch code {
	case CodeUnreachable:
		n.Title = c.get("unreachable.title")
		n.Text = c.get("unreachable.text")
		return n
	case CodeInvalidCost:
		n.Kind = KindWarning
	}
	n.Title = c.get(op.String() + ".fail.title")
	if text, ok := c.lookup("code." + string(code)); ok {
		n.Text = text
	} else {
		n.Text = c.get(op.String() + ".fail.text")
	}
	return n
}

// DeletePrompt is the confirmation asked before a delete.
func (c *Catalog) DeletePrompt() Prompt {
	return Prompt{
		Title:   c.get("delete.confirm.title"),
		Text:    c.get("delete.confirm.text"),
		Confirm: c.get("delete.confirm.yes"),
		Cancel:  c.get("delete.confirm.no"),
	}
}

var texts = buildTexts()

// buildTexts registers every key in Portuguese and English. Keys double as
// message ids, so none may contain a formatting verb.
func buildTexts() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.BrazilianPortuguese))
	set := func(key, pt, en string) {
		_ = b.SetString(language.BrazilianPortuguese, key, pt)
		_ = b.SetString(language.AmericanEnglish, key, en)
	}

	set("create.ok.title", "Tarefa Criada!", "Task Created!")
	set("create.ok.text", "Sua Tarefa foi adicionada com sucesso.", "Your task was added successfully.")
	set("create.fail.title", "Erro ao cadastrar Tarefa", "Could not create task")
	set("create.fail.text", "Ocorreu um erro ao criar a task.", "Something went wrong while creating the task.")
	set("update.ok.title", "Tarefa Atualizada!", "Task Updated!")
	set("update.ok.text", "Sua Tarefa foi atualizada com sucesso.", "Your task was updated successfully.")
	set("update.fail.title", "Erro ao atualizar Tarefa", "Could not update task")
	set("update.fail.text", "Ocorreu um erro ao atualizar a task.", "Something went wrong while updating the task.")
	set("delete.ok.title", "Excluído!", "Deleted!")
	set("delete.ok.text", "A tarefa foi excluída com sucesso.", "The task was deleted successfully.")
	set("delete.fail.title", "Erro ao excluir Tarefa", "Could not delete task")
	set("delete.fail.text", "Ocorreu um erro ao excluir a task.", "Something went wrong while deleting the task.")
	set("load.fail.title", "Erro de Conexão", "Connection Error")
	set("load.fail.text", "Não foi possível carregar as tarefas.", "Could not load the tasks.")
	set("unreachable.title", "Erro de Conexão", "Connection Error")
	set("unreachable.text", "Não foi possível conectar ao servidor. Tente novamente mais tarde.", "Could not reach the server. Please try again later.")
	set("delete.confirm.title", "Tem certeza?", "Are you sure?")
	set("delete.confirm.text", "Deseja realmente excluir a tarefa?", "Do you really want to delete this task?")
	set("delete.confirm.yes", "Sim, excluir!", "Yes, delete it!")
	set("delete.confirm.no", "Cancelar", "Cancel")

	set("code.cost_negative", "O custo da tarefa não pode ser negativo.", "The task cost cannot be negative.")
	set("code.name_duplicate", "Já existe uma tarefa com esse nome.", "A task with this name already exists.")
	set("code.name_required", "O nome da tarefa é obrigatório.", "The task name is required.")
	set("code.cost_required", "O custo da tarefa é obrigatório.", "The task cost is required.")
	set("code.due_required", "A data limite é obrigatória.", "The due date is required.")
	set("code.field_required", "Preencha todos os campos obrigatórios.", "Please fill in all required fields.")
	set("code.cost_too_high", "O custo da tarefa excede o valor máximo permitido.", "The task cost exceeds the maximum allowed.")
	set("code.invalid_cost", "Informe um custo numérico válido.", "Enter a valid numeric cost.")

	set("title", "Lista de Tarefas", "Task List")
	set("col.id", "ID", "ID")
	set("col.name", "Tarefa", "Task")
	set("col.due", "Data Limite", "Due Date")
	set("col.cost", "Custo", "Cost")
	set("col.actions", "Ações", "Actions")
	set("input.name", "Nome da tarefa", "Task name")
	set("input.due", "Data limite (AAAA-MM-DD)", "Due date (YYYY-MM-DD)")
	set("input.cost", "Custo", "Cost")
	set("btn.add", "Adicionar", "Add")
	set("btn.edit", "Editar", "Edit")
	set("btn.save", "Salvar", "Save")
	set("btn.delete", "Excluir", "Delete")
	set("btn.refresh", "Atualizar", "Refresh")
	set("empty", "Nenhuma tarefa cadastrada.", "No tasks yet.")
	set("loading", "Carregando...", "Loading...")
	set("high_cost", "custo alto", "high cost")
	return b
}
