// Package clformat formats values with Common Lisp style control strings.
//
// A control string mixes literal text with directives introduced by a tilde.
// Directives consume arguments, render numbers and text, and can nest to
// express conditionals, loops, case conversion and column justification.
//
// # Quick Start
//
// The simplest way to use clformat is through the package-level functions:
//
//	s, err := clformat.Format("~D item~:P", 3)
//	// s == "3 items"
//
//	s, err = clformat.Format("Items:~#[ none~; ~A~; ~A and ~A~:;~@{~#[~; and~] ~A~^,~}~].",
//	    "FOO", "BAR", "BAZ")
//	// s == "Items: FOO, BAR, and BAZ."
//
// Controls can be compiled once and reused:
//
//	ctl := clformat.MustCompile("~10,'.<~A~;~D~>")
//	s, err = ctl.Sprint("total", 42)
//
// # Directive Syntax
//
// Every directive has the form ~[params][modifiers]X:
//
//	~5,'0D     - parameters separated by commas
//	~,2F       - an empty slot keeps the default
//	~vA        - v takes the parameter from the next argument
//	~#[        - # is the number of remaining arguments
//	~:@R       - modifiers : @ and + in any order
//
// Printing:
//
//	~A ~S ~W                 - value, quoted value, written value
//	~D ~B ~O ~X ~R           - integers in radix 10, 2, 8, 16 or any radix
//	~R ~:R ~@R ~:@R          - cardinal, ordinal, roman, old roman
//	~F ~E ~G ~$              - fixed, exponential, general, monetary
//	~C                       - characters and their Unicode names
//	~P                       - plural suffixes
//
// Layout:
//
//	~% ~& ~| ~~              - newline, fresh line, page, tilde
//	~T                       - tabulate to a column
//	~mincol,colinc,minpad,padchar<...~;...~>  - justification
//
// Control flow:
//
//	~[...~;...~:;...~]       - select a clause
//	~{...~}                  - iterate over a list
//	~(...~)                  - case conversion
//	~^                       - exit the enclosing iteration
//	~*                       - skip arguments
//	~?                       - indirect control string
//
// # Custom Directives
//
// The registry is immutable. Extend it with a builder and pass it to an
// engine:
//
//	reg := clformat.StandardRegistry().Extend().
//	    Atomic(clformat.NewSpecifier('q', quoteDirective)).
//	    Build()
//	engine := clformat.NewWithOptions(clformat.WithRegistry(reg))
//
// # Configuration
//
// Engines read their defaults from Config. The global configuration is
// initialized from CLFORMAT_* environment variables.
package clformat
