package token

import (
	"slices"
	"strings"
	"sync"
)

// Table is an immutable set of lowercase words.
type Table struct {
	name  string
	words map[string]struct{}
}

func newTable(name, list string) *Table {
	fields := strings.Fields(list)
	t := &Table{name: name, words: make(map[string]struct{}, len(fields))}
	for _, w := range fields {
		t.words[w] = struct{}{}
	}
	return t
}

// Name identifies the table ("keywords", "types", "functions").
func (t *Table) Name() string { return t.name }

// Contains reports whether word, lowercased, is in the table.
func (t *Table) Contains(word string) bool {
	_, ok := t.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct words.
func (t *Table) Len() int { return len(t.words) }

// Words returns the members in sorted order.
func (t *Table) Words() []string {
	out := make([]string, 0, len(t.words))
	for w := range t.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// "ge" is listed twice; the set collapses it.
const keywordList = `
	if then end_if elsif else case of end_case
	to do by while repeat until end_while end_repeat for end_for from
	public private protected retain non_retain internal constant
	or and not xor le ge eq ne ge lt
	return exit at task with using extend
	nil true false
	action end_action
	program end_program function end_function function_block end_function_block configuration
	end_configuration transition end_transition type end_type struct end_struct step
	end_step initial_step namespace end_namespace channel end_channel library end_library folder end_folder resource end_resource
	var var_global end_var var_input var_external var_out var_output var_in_out var_temp var_interval var_access var_config
	method end_method property end_property interface end_interface
	virtual global
`

const typeKeywordList = `
	array pointer int sint dint lint usint uint udint ulint real lreal
	time date time_of_day date_and_time dt tod
	wstring string bool byte word dword lword ref_to any_num any_int any_string
	char wchar bsint bint bdint hsint hint hdint
`

const functionNameList = `
	abs acos asin atan cos exp ln log sin sqrt tan sizeof
	shl shr sar rol ror mod
`

var (
	keywords      = sync.OnceValue(func() *Table { return newTable("keywords", keywordList) })
	typeKeywords  = sync.OnceValue(func() *Table { return newTable("types", typeKeywordList) })
	functionNames = sync.OnceValue(func() *Table { return newTable("functions", functionNameList) })
)

// Keywords returns the control and declaration keyword table.
func Keywords() *Table { return keywords() }

// TypeKeywords returns the type name table.
func TypeKeywords() *Table { return typeKeywords() }

// FunctionNames returns the built-in function table.
func FunctionNames() *Table { return functionNames() }

// Tables returns all keyword tables in classification order.
func Tables() []*Table {
	return []*Table{Keywords(), TypeKeywords(), FunctionNames()}
}

// LookupTable finds a table by its Name.
func LookupTable(name string) (*Table, bool) {
	for _, t := range Tables() {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}
