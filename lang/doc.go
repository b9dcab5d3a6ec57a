// Package lang implements the rubber notation: a LaTeX-flavored
// mathematical language parsed into an AST, evaluated against a scope
// of definitions, and rendered back out in native, JSON, or YAML form.
//
// # Notation
//
// A program is a sequence of statements, one per line. A statement
// either defines a name or computes a value:
//
//	a = 10
//	f(x) = x ^ 2 + a
//	g(\vec{v})_{i} = v_{i} * i
//	f(2) + \sqrt{16}
//	\sum_{k = 1}^{5} k
//
// Scalar names are single lowercase letters; \vec{v} names a vector.
// Vectors are written (1, 2, 3) and indexed from one with v_{i}.
// Control sequences such as \frac{a}{b} and \max{a}{b} resolve through
// a fixed symbol table; an unregistered name is an error, never a
// variable. Evaluation follows IEEE 754, so 1 / 0 is +Inf rather than
// an error.
//
// # Grammar
//
//	program     = { [ statement ] newline } "EOF" .
//	statement   = mapFuncDecl | funcDecl | assignment | expression .
//	mapFuncDecl = scalar "(" vecIdent ")" "_{" scalar "}" "=" expression .
//	funcDecl    = scalar "(" identifier ")" "=" expression .
//	assignment  = identifier "=" expression .
//	expression  = term { ( "+" | "-" ) term } .
//	term        = power { ( "*" | "/" ) power } .
//	power       = postfix { "^" postfix } .
//	postfix     = primary [ "_{" expression "}" ] .
//	primary     = paren | call | atom | vector | symbolic .
//	paren       = "(" expression ")" .
//	call        = scalar "(" expression ")" .
//	atom        = number | identifier .
//	vector      = "(" expression "," expression { "," expression } ")" .
//	symbolic    = "\" name { "{" expression "}" } .
//	identifier  = scalar | vecIdent .
//	vecIdent    = "\vec{" scalar "}" .
//	scalar      = "a" … "z" .
//	number      = digits [ "." digits ] .
//
// Binary operators are left-associative. Alternatives are tried in
// order with backtracking; parse errors report the furthest position
// reached and the tokens expected there.
//
// # Example
//
//	prog, err := lang.ParseString(ctx, "f(x) = x ^ 2\nf(3) + 1\n")
//	if err != nil {
//		return err
//	}
//
//	values, err := prog.Evaluate(ctx)
//	if err != nil {
//		return err
//	}
//
//	fmt.Println(values[0]) // 10
package lang
