package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/sanity-io/litter"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Fern - A small imperative language that interprets and compiles to Java

Usage:
    fern <command> [arguments]

Commands:
    run <file>      Analyze and execute a .fern file
    gen <file>      Compile a .fern file to Java source
    eval <code>     Evaluate inline fern code
    check <file>    Parse and analyze a .fern file
    ast <file>      Print the syntax tree of a .fern file
    help            Show this help message

Examples:
    fern run examples/fizzbuzz.fern
    fern gen -o Main.java hello.fern
    fern eval 'FUN main ( ) : Integer DO print("hi"); RETURN 0; END'
    fern check myfile.fern

Use "fern <command> -h" for more information about a command.
`)
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fern run <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze and execute a .fern file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	src, err := compileFile(fs.Arg(0), true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := NewInterpreter(os.Stdout).Run(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fault: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitStatus(result))
}

func genCommand(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fern gen [-o output] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .fern file to Java source\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	src, err := compileFile(fs.Arg(0), true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	java := GenerateJava(src)
	if *output == "" {
		fmt.Print(java)
		return
	}
	if err := os.WriteFile(*output, []byte(java), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", *output, len(java))
}

func evalCommand(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fern eval <code>\n")
		fmt.Fprintf(os.Stderr, "Evaluate inline fern code\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	src, err := compileSource(fs.Arg(0), true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := NewInterpreter(os.Stdout).Run(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fault: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitStatus(result))
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show the analyzed syntax tree")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fern check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and analyze a .fern file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)
	src, err := compileFile(filename, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", SourceToSExpr(src))
	}
}

func astCommand(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	analyzed := fs.Bool("analyzed", false, "Analyze before printing, filling type and binding slots")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fern ast [-analyzed] <file>\n")
		fmt.Fprintf(os.Stderr, "Print the syntax tree of a .fern file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	src, err := compileFile(fs.Arg(0), *analyzed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	litter.Dump(src)
}

// compileFile reads, lexes, and parses a file, optionally analyzing the
// result.
func compileFile(filename string, analyze bool) (*Source, error) {
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %v", filename, err)
	}
	return compileSource(string(sourceBytes), analyze)
}

func compileSource(input string, analyze bool) (*Source, error) {
	tokens, err := NewLexer(input).Lex()
	if err != nil {
		return nil, err
	}
	src, err := NewParser(tokens).ParseSource()
	if err != nil {
		return nil, err
	}
	if analyze {
		if err := NewAnalyzer(nil).Analyze(src); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// exitStatus maps main/0's Integer result onto a process exit status,
// clamping to the range the shell can represent.
func exitStatus(result Value) int {
	n, ok := result.(*big.Int)
	if !ok || !n.IsInt64() {
		return 0
	}
	status := n.Int64()
	if status < 0 || status > 125 {
		return 1
	}
	return int(status)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		runCommand(args)
	case "gen":
		genCommand(args)
	case "eval":
		evalCommand(args)
	case "check":
		checkCommand(args)
	case "ast":
		astCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
