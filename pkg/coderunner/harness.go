package coderunner

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"
)

// languageSpec describes how a language's harness is materialized and run
// inside a sandboxed container, per spec.md §4.6 step 2.
type languageSpec struct {
	Image    string
	Filename string
	InitCmd  string // run once after the container starts, e.g. project scaffolding
	RunCmd   string // writes stdin to Filename then executes it
	harness  *template.Template
	fnNameRe *regexp.Regexp
}

type harnessData struct {
	Source       string
	FunctionName string
	TestInput    string
}

var languageSpecs = map[string]languageSpec{
	"PYTHON": {
		Image:    "python:3.12-alpine",
		Filename: "main.py",
		RunCmd:   "python3 /work/main.py",
		harness:  template.Must(template.New("py").Parse("{{.Source}}\n\nprint({{.FunctionName}}({{.TestInput}}))\n")),
		fnNameRe: regexp.MustCompile(`(?m)^def\s+(\w+)\s*\(`),
	},
	"JAVASCRIPT": {
		Image:    "node:20-alpine",
		Filename: "main.js",
		RunCmd:   "node /work/main.js",
		harness:  template.Must(template.New("js").Parse("{{.Source}}\n\nconsole.log({{.FunctionName}}({{.TestInput}}));\n")),
		fnNameRe: regexp.MustCompile(`function\s+(\w+)\s*\(`),
	},
	"RUBY": {
		Image:    "ruby:3.3-alpine",
		Filename: "main.rb",
		RunCmd:   "ruby /work/main.rb",
		harness:  template.Must(template.New("rb").Parse("{{.Source}}\n\nputs {{.FunctionName}}({{.TestInput}})\n")),
		fnNameRe: regexp.MustCompile(`(?m)^def\s+(\w+)`),
	},
	"PHP": {
		Image:    "php:8.3-cli-alpine",
		Filename: "main.php",
		RunCmd:   "php /work/main.php",
		harness:  template.Must(template.New("php").Parse("<?php\n{{.Source}}\n\necho {{.FunctionName}}({{.TestInput}});\n")),
		fnNameRe: regexp.MustCompile(`function\s+(\w+)\s*\(`),
	},
	"JAVA": {
		Image:    "eclipse-temurin:21-jdk-alpine",
		Filename: "Main.java",
		RunCmd:   "sh -c 'cd /work && javac Main.java && java Main'",
		harness: template.Must(template.New("java").Parse(
			"public class Main {\n{{.Source}}\n\n    public static void main(String[] args) {\n        System.out.println({{.FunctionName}}({{.TestInput}}));\n    }\n}\n")),
		fnNameRe: regexp.MustCompile(`\b\w+\s+(\w+)\s*\([^)]*\)\s*\{`),
	},
	"C_SHARP": {
		Image: "mcr.microsoft.com/dotnet/sdk:8.0",
		InitCmd: "sh -c 'cd /work && cat > main.csproj <<EOF\n" +
			"<Project Sdk=\"Microsoft.NET.Sdk\"><PropertyGroup><OutputType>Exe</OutputType><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>\nEOF'",
		Filename: "Program.cs",
		RunCmd:   "sh -c 'cd /work && dotnet run --project /work'",
		harness: template.Must(template.New("cs").Parse(
			"using System;\n\nclass Program {\n{{.Source}}\n\n    static void Main() {\n        Console.WriteLine({{.FunctionName}}({{.TestInput}}));\n    }\n}\n")),
		fnNameRe: regexp.MustCompile(`\b\w+\s+(\w+)\s*\([^)]*\)\s*\{`),
	},
}

// extractFunctionName finds the submitted source's entry function by a
// simple per-language pattern, defaulting to "solve" per spec.md §4.6.
func extractFunctionName(language, source string) string {
	spec, ok := languageSpecs[language]
	if !ok || spec.fnNameRe == nil {
		return "solve"
	}
	m := spec.fnNameRe.FindStringSubmatch(source)
	if len(m) < 2 {
		return "solve"
	}
	return m[1]
}

// buildHarness renders the language's harness template around the
// candidate's source, substituting the test's input expression literally
// into the entry-function call.
func buildHarness(language, source, testInput string) (string, error) {
	spec, ok := languageSpecs[language]
	if !ok {
		return "", fmt.Errorf("unsupported language %q", language)
	}
	var buf bytes.Buffer
	data := harnessData{Source: source, FunctionName: extractFunctionName(language, source), TestInput: testInput}
	if err := spec.harness.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s harness: %w", language, err)
	}
	return buf.String(), nil
}
