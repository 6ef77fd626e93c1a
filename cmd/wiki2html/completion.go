package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUnsupportedShell is returned for a shell without a completion script.
var ErrUnsupportedShell = errors.New("unsupported shell")

// Shell names a completion target.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var shells = []Shell{ShellBash, ShellZsh, ShellFish}

// flagType selects how a flag value is completed.
type flagType int

const (
	flagBool flagType = iota
	flagString
	flagFile
	flagDir
	flagEnum
)

type flagDef struct {
	long   string
	short  string
	usage  string
	typ    flagType
	values []string // flagEnum
	glob   string   // flagFile, space separated patterns
}

type commandDef struct {
	name  string
	desc  string
	args  string // glob for positional files; empty = none
	flags []flagDef
}

// completionMeta refines the completion of value flags. Flags not listed
// complete as free strings or booleans.
type completionMeta struct {
	typ    flagType
	values []string
	glob   string
}

var flagCompletionMeta = map[string]completionMeta{
	"format":     {typ: flagEnum, values: []string{"auto", "mediawiki", "namumark", "plain"}},
	"config":     {typ: flagFile, glob: "*.yaml *.yml"},
	"style":      {typ: flagFile, glob: "*.css"},
	"output":     {typ: flagDir},
	"asset-path": {typ: flagDir},
	"image-base": {typ: flagDir},
}

// extractFlags turns a FlagSet into completion definitions, sorted by name.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		def := flagDef{long: f.Name, short: f.Shorthand, usage: f.Usage, typ: flagString}
		if f.Value.Type() == "bool" {
			def.typ = flagBool
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			def.typ, def.values, def.glob = meta.typ, meta.values, meta.glob
		}
		defs = append(defs, def)
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].long < defs[j].long })
	return defs
}

// getCommands describes every subcommand from its registered flags.
func getCommands() []commandDef {
	renderFS, _ := renderFlagSet(io.Discard)
	detectFS, _ := detectFlagSet(io.Discard)
	dumpFS, _ := dumpFlagSet(io.Discard)

	return []commandDef{
		{name: "render", desc: "Compile wiki files to HTML", args: "*.wiki *.mediawiki *.namu *.txt", flags: extractFlags(renderFS)},
		{name: "detect", desc: "Report the detected dialect of wiki files", args: "*.wiki *.mediawiki *.namu *.txt", flags: extractFlags(detectFS)},
		{name: "dump", desc: "Render every page of a wiki dump", args: "*.xml *.json", flags: extractFlags(dumpFS)},
		{name: "styles", desc: "List the built-in page styles"},
		{name: "completion", desc: "Generate a shell completion script"},
		{name: "version", desc: "Show version information"},
		{name: "help", desc: "Show help for a command"},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell, prog string) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, prog, cmds)
	case ShellZsh:
		return generateZsh(w, prog, cmds)
	case ShellFish:
		return generateFish(w, prog, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) != 1 {
		printCompletionUsage(env.Stderr)
		return fmt.Errorf("%w: completion takes exactly one shell name", ErrUsage)
	}
	if args[0] == "-h" || args[0] == "--help" {
		printCompletionUsage(env.Stdout)
		return flag.ErrHelp
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]), "wiki2html")
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script. Shells: bash, zsh, fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  wiki2html completion bash > /etc/bash_completion.d/wiki2html")
	fmt.Fprintln(w, "  wiki2html completion zsh > \"${fpath[1]}/_wiki2html\"")
	fmt.Fprintln(w, "  wiki2html completion fish > ~/.config/fish/completions/wiki2html.fish")
}

// ----------------------------------------------------------------------------
// Bash
// ----------------------------------------------------------------------------

func generateBash(w io.Writer, prog string, cmds []commandDef) error {
	fn := "_" + strings.ReplaceAll(prog, "-", "_")
	var b strings.Builder

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.name
	}

	fmt.Fprintf(&b, "# bash completion for %s\n", prog)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		switch {
		case c.name == "help":
			fmt.Fprintf(&b, "        help)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            ;;\n", strings.Join(names, " "))
			continue
		case c.name == "completion":
			fmt.Fprintf(&b, "        completion)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            ;;\n", shellNames())
			continue
		case len(c.flags) == 0:
			continue
		}

		fmt.Fprintf(&b, "        %s)\n", c.name)
		b.WriteString("            case \"$prev\" in\n")
		for _, f := range c.flags {
			if f.typ == flagBool || f.typ == flagString {
				continue
			}
			fmt.Fprintf(&b, "                %s)\n", bashFlagPattern(f))
			switch f.typ {
			case flagEnum:
				fmt.Fprintf(&b, "                    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(f.values, " "))
			case flagDir:
				b.WriteString("                    COMPREPLY=($(compgen -d -- \"$cur\"))\n")
			default:
				b.WriteString("                    COMPREPLY=($(compgen -f -- \"$cur\"))\n")
			}
			b.WriteString("                    return\n")
			b.WriteString("                    ;;\n")
		}
		b.WriteString("            esac\n")
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", bashFlagWords(c.flags))
		b.WriteString("            else\n")
		b.WriteString("                COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		b.WriteString("            fi\n")
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "complete -F %s %s\n", fn, prog)

	_, err := io.WriteString(w, b.String())
	return err
}

func bashFlagPattern(f flagDef) string {
	if f.short != "" {
		return "--" + f.long + "|-" + f.short
	}
	return "--" + f.long
}

func bashFlagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.long)
		if f.short != "" {
			words = append(words, "-"+f.short)
		}
	}
	return strings.Join(words, " ")
}

// ----------------------------------------------------------------------------
// Zsh
// ----------------------------------------------------------------------------

func generateZsh(w io.Writer, prog string, cmds []commandDef) error {
	fn := "_" + strings.ReplaceAll(prog, "-", "_")
	var b strings.Builder

	fmt.Fprintf(&b, "#compdef %s\n\n", prog)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.name, zshQuote(c.desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case $words[2] in\n")

	for _, c := range cmds {
		switch {
		case c.name == "help":
			b.WriteString("        help)\n            _describe 'command' commands\n            ;;\n")
			continue
		case c.name == "completion":
			fmt.Fprintf(&b, "        completion)\n            _values 'shell' %s\n            ;;\n", shellNames())
			continue
		case len(c.flags) == 0:
			continue
		}

		fmt.Fprintf(&b, "        %s)\n", c.name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.flags {
			spec := "--" + f.long
			if f.short != "" {
				spec = "{-" + f.short + ",--" + f.long + "}"
			}
			fmt.Fprintf(&b, "                %s'[%s]%s' \\\n", spec, zshDesc(f.usage), zshAction(f))
		}
		fmt.Fprintf(&b, "                '*:file:_files -g \"%s\"'\n", zshGlob(c.args))
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef %s %s\n", fn, prog)

	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch f.typ {
	case flagBool:
		return ""
	case flagEnum:
		return ":value:(" + strings.Join(f.values, " ") + ")"
	case flagDir:
		return ":directory:_files -/"
	case flagFile:
		return ":file:_files -g \"" + zshGlob(f.glob) + "\""
	default:
		return ":value: "
	}
}

// zshGlob joins space separated patterns into a zsh alternation.
func zshGlob(patterns string) string {
	fields := strings.Fields(patterns)
	if len(fields) < 2 {
		return patterns
	}
	return "(" + strings.Join(fields, "|") + ")"
}

func zshDesc(s string) string {
	s = strings.NewReplacer("[", "\\[", "]", "\\]", ":", "\\:").Replace(s)
	return zshQuote(s)
}

func zshQuote(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// ----------------------------------------------------------------------------
// Fish
// ----------------------------------------------------------------------------

func generateFish(w io.Writer, prog string, cmds []commandDef) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# fish completion for %s\n", prog)
	fmt.Fprintf(&b, "complete -c %s -f\n", prog)
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c %s -n __fish_use_subcommand -a %s -d %s\n", prog, c.name, fishQuote(c.desc))
	}

	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.name
		switch c.name {
		case "help":
			for _, o := range cmds {
				fmt.Fprintf(&b, "complete -c %s -n %s -a %s\n", prog, fishQuote(cond), o.name)
			}
			continue
		case "completion":
			fmt.Fprintf(&b, "complete -c %s -n %s -a %s\n", prog, fishQuote(cond), fishQuote(shellNames()))
			continue
		}
		if c.args != "" {
			fmt.Fprintf(&b, "complete -c %s -n %s -F\n", prog, fishQuote(cond))
		}
		for _, f := range c.flags {
			line := fmt.Sprintf("complete -c %s -n %s -l %s", prog, fishQuote(cond), f.long)
			if f.short != "" {
				line += " -s " + f.short
			}
			switch f.typ {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.values, " "))
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			case flagString:
				line += " -x"
			}
			line += " -d " + fishQuote(f.usage)
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

func shellNames() string {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = string(s)
	}
	return strings.Join(names, " ")
}
