package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Compile wiki files to HTML (default)")
	fmt.Fprintln(w, "  detect     Report the detected dialect of wiki files")
	fmt.Fprintln(w, "  dump       Render every page of a MediaWiki or NamuWiki dump")
	fmt.Fprintln(w, "  styles     List the built-in page styles")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'wiki2html help <command>' for details on a specific command.")
}

// printCompileUsage prints the flags shared by render and dump.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Compilation:")
	fmt.Fprintln(w, "  -f, --format <s>          Dialect: auto, mediawiki, namumark, plain")
	fmt.Fprintln(w, "      --link-prefix <s>     Prefix for internal links (default \"/wiki/\")")
	fmt.Fprintln(w, "      --date-format <s>     Layout for the [date] macro")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --image-base <s>      URL or directory for relative image sources")
	fmt.Fprintln(w, "      --max-size <n>        Maximum input size in bytes")
	fmt.Fprintln(w, "      --no-sanitize         Skip the HTML sanitizer")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for code blocks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --standalone          Write full HTML5 documents")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file path, or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom style directory (<name>.css or styles/<name>.css)")
	fmt.Fprintln(w, "      --lang <s>            Document language (default \"ko\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text")
	fmt.Fprintln(w, "      --toc-min-depth <n>   Min heading depth (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>   Max heading depth (1-6)")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile wiki files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Wiki file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Directories are scanned for .wiki, .mediawiki, .namu, .txt")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (- for stdout)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --title <s>           Page title (default: file name)")
	fmt.Fprintln(w, "      --text                Write plain text instead of HTML")
	fmt.Fprintln(w, "      --json                Write the result as JSON")
	fmt.Fprintln(w)
	printCompileUsage(w)
}

// printDetectUsage prints usage for the detect command.
func printDetectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html detect <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Score each file against MediaWiki and NamuMark markers and report")
	fmt.Fprintln(w, "the dialect it would be compiled as. Use - for stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print scores as JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Print the dialect only")
}

// printDumpUsage prints usage for the dump command.
func printDumpUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html dump <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every page of a MediaWiki XML export or a NamuWiki JSON dump")
	fmt.Fprintln(w, "to <output>/<title>.html. XML pages compile as MediaWiki and JSON")
	fmt.Fprintln(w, "pages as NamuMark unless --format says otherwise.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dump:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: config or .)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --ns <n,...>          Namespace numbers to render (default: all)")
	fmt.Fprintln(w, "      --include-redirects   Render redirect pages too")
	fmt.Fprintln(w, "  -n, --limit <n>           Stop after n pages (0 = no limit)")
	fmt.Fprintln(w)
	printCompileUsage(w)
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the built-in page styles usable with --style.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "detect":
		printDetectUsage(env.Stdout)
	case "dump":
		printDumpUsage(env.Stdout)
	case "styles":
		printStylesUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: wiki2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: wiki2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
