package main

import "fmt"

// Variable is a named binding in a scope: the analyzer records its type and
// mutability, the interpreter stores its current value in the same cell.
type Variable struct {
	Name     string
	JavaName string
	Type     Type
	Mutable  bool
	Value    Value
}

// FunctionBinding is a named function in a scope. Call is nil for bindings
// defined by the analyzer; the interpreter installs an invoker.
type FunctionBinding struct {
	Name           string
	JavaName       string
	ParameterTypes []Type
	ReturnType     Type
	Call           func(args []Value) (Value, error)
}

// Scope is a chained name-to-binding store. Lookup walks innermost-first
// through parents; definitions always land in the receiver scope, so inner
// definitions shadow outer ones.
type Scope struct {
	parent    *Scope
	variables map[string]*Variable
	functions map[string]*FunctionBinding
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:    parent,
		variables: make(map[string]*Variable),
		functions: make(map[string]*FunctionBinding),
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) DefineVariable(name, javaName string, typ Type, mutable bool, value Value) (*Variable, error) {
	if _, ok := s.variables[name]; ok {
		return nil, fmt.Errorf("variable '%s' is already defined", name)
	}
	v := &Variable{Name: name, JavaName: javaName, Type: typ, Mutable: mutable, Value: value}
	s.variables[name] = v
	return v, nil
}

func (s *Scope) LookupVariable(name string) (*Variable, error) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.variables[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("variable '%s' is not defined", name)
}

// Functions are keyed by name and arity, so print/1 and a user print/2
// coexist.
func functionKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

func (s *Scope) DefineFunction(fb *FunctionBinding) error {
	key := functionKey(fb.Name, len(fb.ParameterTypes))
	if _, ok := s.functions[key]; ok {
		return fmt.Errorf("function '%s' is already defined", key)
	}
	s.functions[key] = fb
	return nil
}

func (s *Scope) LookupFunction(name string, arity int) (*FunctionBinding, error) {
	key := functionKey(name, arity)
	for scope := s; scope != nil; scope = scope.parent {
		if fb, ok := scope.functions[key]; ok {
			return fb, nil
		}
	}
	return nil, fmt.Errorf("function '%s' is not defined", key)
}
