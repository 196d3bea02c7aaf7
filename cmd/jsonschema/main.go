// Command jsonschema validates JSON instance documents against a JSON
// Schema and prints the result in one of the engine's four output shapes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/decode"
	"github.com/grbell-ms/json-everything/value"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonschema CLI\n\nUsage:\n  jsonschema validate -schema schema.json [-format flag|basic|detailed|verbose] [-draft 6|7|2019|2020] instance.json [instance2.json ...]")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	var format string
	var draft int
	var requireFormat bool
	fs.StringVar(&schemaPath, "schema", "", "path to the schema document")
	fs.StringVar(&format, "format", "basic", "output format: flag, basic, detailed, verbose")
	fs.IntVar(&draft, "draft", 0, "override dialect detection (6, 7, 2019, 2020)")
	fs.BoolVar(&requireFormat, "require-format", false, "treat \"format\" as an assertion regardless of dialect")
	_ = fs.Parse(args)

	if schemaPath == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(jsonschema.DefaultLoader())
	opts.RequireFormatValidation = requireFormat
	if d := jsonschema.DraftFromVersion(draft); d != nil {
		opts.EvaluateAs = d
	}
	switch format {
	case "flag":
		opts.OutputFormat = jsonschema.OutputFlag
	case "basic":
		opts.OutputFormat = jsonschema.OutputBasic
	case "detailed":
		opts.OutputFormat = jsonschema.OutputDetailed
	case "verbose":
		opts.OutputFormat = jsonschema.OutputVerbose
	default:
		fatalf("unknown output format %q", format)
	}

	schemaDoc, err := decodeFile(schemaPath)
	if err != nil {
		fatalf("reading schema %s: %v", schemaPath, err)
	}
	sch, err := jsonschema.Compile(opts.Registry, schemaDoc, opts.DefaultBaseURI, opts)
	if err != nil {
		fatalf("compiling schema: %v", err)
	}

	allValid := true
	for _, instPath := range fs.Args() {
		instDoc, err := decodeFile(instPath)
		if err != nil {
			fatalf("reading instance %s: %v", instPath, err)
		}
		res, err := jsonschema.Evaluate(nil, sch, instDoc, opts)
		if err != nil {
			fatalf("evaluating %s: %v", instPath, err)
		}
		out := jsonschema.Format(res, opts.OutputFormat)
		if !out.Valid {
			allValid = false
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		fmt.Printf("%s:\n", instPath)
		if err := enc.Encode(out); err != nil {
			fatalf("encoding result for %s: %v", instPath, err)
		}
	}
	if !allValid {
		os.Exit(1)
	}
}

func decodeFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	driver := decode.Default()
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if d, ok := decode.ByName("yaml"); ok {
			driver = d
		}
	}
	return driver.Decode(data)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
