package rxtemplate_test

import (
	"fmt"

	"github.com/jacoelho/rxtemplate"
)

func ExampleMake() {
	p, err := rxtemplate.Make([]string{"^", "$"}, "1+1=2")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(p)
	// Output: /^(?:1\+1=2)$/
}

func ExampleMakeFlags() {
	p, err := rxtemplate.MakeFlags("i",
		[]string{"^([", "", "]{", "})", ""},
		`\`, rxtemplate.Regex("[a-z]", ""), 42, rxtemplate.Regex("$", ""),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(p)
	// Output: /^([\\a-z]{42})(?:$)/i
}

func ExampleMake_charset() {
	p := rxtemplate.MustMake([]string{"[", "]"}, rxtemplate.Regex("[a]|([c]|b)|d|_", ""))
	fmt.Println(p.Source)
	// Output: [_a-d]
}

func ExampleMake_groups() {
	p := rxtemplate.MustMake(
		[]string{"(fo(o))", "bar", "(baz)"},
		rxtemplate.Regex(`(x)\1(?:\2)`, ""),
		rxtemplate.Regex(`\1`, ""),
	)
	fmt.Println(p.Source)
	fmt.Println(p.Groups)
	// Output:
	// (fo(o))(?:(x)\3(?:\2))bar(?:\1)(baz)
	// [0 1 2 4]
}

func ExamplePattern_Compile() {
	word := rxtemplate.Regex("<foo>", "i")
	p := rxtemplate.MustMake([]string{"^", "$"}, word)
	re, err := p.Compile()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	ok, _ := re.MatchString("<FoO>")
	fmt.Println(p.Source, ok)
	// Output: ^(?:<[Ff][Oo][Oo]>)$ true
}
