package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/olliecrow/claude_usage_line/internal/segment"
	"github.com/olliecrow/claude_usage_line/internal/tui"
	"github.com/olliecrow/claude_usage_line/internal/usage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runRender(nil)
	}

	switch args[0] {
	case "render":
		return runRender(args[1:])
	case "tui":
		return runTUI(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "completion":
		return runCompletion(args[1:])
	case "-h", "--help", "help":
		printRootUsage()
		return 0
	default:
		// Treat bare flags as render flags for better UX.
		if strings.HasPrefix(args[0], "-") {
			return runRender(args)
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printRootUsage()
		return 2
	}
}

func runRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	noColor := fs.Bool("no-color", false, "disable color styling")
	timeout := fs.Duration("timeout", 10*time.Second, "overall render timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *timeout <= 0 {
		fmt.Fprintln(os.Stderr, "error: --timeout must be > 0")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	renderer := segment.NewRenderer(*noColor)
	line := renderer.Render(ctx, usage.NewSegment())
	if line != "" {
		fmt.Println(line)
	}
	return 0
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOutput := fs.Bool("json", false, "output doctor report as JSON")
	timeout := fs.Duration("timeout", 20*time.Second, "doctor timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *timeout <= 0 {
		fmt.Fprintln(os.Stderr, "error: --timeout must be > 0")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report := usage.RunDoctor(ctx)

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to encode JSON: %v\n", err)
			return 1
		}
	} else {
		printDoctorHuman(report)
	}

	if !report.Healthy() {
		return 1
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	interval := fs.Duration("interval", 60*time.Second, "poll interval")
	timeout := fs.Duration("timeout", 10*time.Second, "per-poll fetch timeout")
	noColor := fs.Bool("no-color", false, "disable color styling")
	noAltScreen := fs.Bool("no-alt-screen", false, "disable alternate screen mode")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *interval <= 0 {
		fmt.Fprintln(os.Stderr, "error: --interval must be > 0")
		return 2
	}
	if *timeout <= 0 {
		fmt.Fprintln(os.Stderr, "error: --timeout must be > 0")
		return 2
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "error: interactive TUI requires a TTY")
		return 1
	}

	seg := usage.NewSegment()
	err := tui.Run(tui.Options{
		Interval:  *interval,
		Timeout:   *timeout,
		NoColor:   *noColor,
		AltScreen: !*noAltScreen,
		Fetch: func(ctx context.Context) (*usage.Snapshot, error) {
			return seg.Refresh(ctx)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runCompletion(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "error: completion accepts zero or one shell argument (bash or zsh)")
		return 2
	}
	shell := "bash"
	if len(args) == 1 {
		shell = strings.TrimSpace(args[0])
	}
	script, err := completionScript(shell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	fmt.Print(script)
	return 0
}

func printDoctorHuman(report usage.DoctorReport) {
	fmt.Println("claude usage line doctor")
	fmt.Println()
	for _, c := range report.Checks {
		state := "FAIL"
		if c.OK {
			state = "PASS"
		}
		fmt.Printf("[%s] %s\n", state, c.Name)
		fmt.Printf("  %s\n", c.Details)
	}
}

func printRootUsage() {
	fmt.Println("claude usage line")
	fmt.Println()
	fmt.Println("Render a status-line segment with Claude API rate-limit usage:")
	fmt.Println("five-hour and seven-day window utilization with reset countdown,")
	fmt.Println("cached on disk so a shell prompt never waits on the network twice.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  claude-usage-line                     Render the usage segment once (default)")
	fmt.Println("  claude-usage-line render [flags]      Render the usage segment explicitly")
	fmt.Println("  claude-usage-line tui [flags]         Run the live terminal user interface (TUI)")
	fmt.Println("  claude-usage-line doctor [flags]      Run credential, cache, and endpoint checks")
	fmt.Println("  claude-usage-line completion [shell]  Print shell completion script")
	fmt.Println()
	fmt.Println("Completion:")
	fmt.Println("  claude-usage-line completion bash > ~/.local/share/bash-completion/completions/claude-usage-line")
	fmt.Println("  claude-usage-line completion zsh > ~/.zsh/completions/_claude-usage-line")
	fmt.Println()
	fmt.Println("Render flags:")
	fmt.Println("  --no-color        Disable color styling")
	fmt.Println("  --timeout 10s     Overall render timeout")
	fmt.Println()
	fmt.Println("Doctor flags:")
	fmt.Println("  --json            Output report as JSON")
	fmt.Println("  --timeout 20s     Doctor timeout")
	fmt.Println()
	fmt.Println("Terminal user interface flags:")
	fmt.Println("  --interval 60s    Poll interval")
	fmt.Println("  --timeout 10s     Per-poll fetch timeout")
	fmt.Println("  --no-color        Disable color styling")
	fmt.Println("  --no-alt-screen   Disable alternate screen mode")
}

func completionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return `# bash completion for claude-usage-line
_claude_usage_line_completion() {
  local cur prev words cword
  _init_completion || return
  local commands="render tui doctor completion help"
  if [[ ${cword} -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
    return
  fi
  case "${words[1]}" in
    completion)
      COMPREPLY=( $(compgen -W "bash zsh" -- "${cur}") )
      ;;
    render)
      COMPREPLY=( $(compgen -W "--no-color --timeout" -- "${cur}") )
      ;;
    doctor)
      COMPREPLY=( $(compgen -W "--json --timeout" -- "${cur}") )
      ;;
    tui)
      COMPREPLY=( $(compgen -W "--interval --timeout --no-color --no-alt-screen" -- "${cur}") )
      ;;
    *)
      COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
      ;;
  esac
}
complete -F _claude_usage_line_completion claude-usage-line
`, nil
	case "zsh":
		return `#compdef claude-usage-line
_claude_usage_line() {
  local -a commands
  commands=(
    'render:render the usage segment once'
    'tui:run live terminal user interface'
    'doctor:run credential, cache, and endpoint checks'
    'completion:print shell completion script'
    'help:show help text'
  )
  if (( CURRENT == 2 )); then
    _describe 'command' commands
    return
  fi
  case "${words[2]}" in
    completion)
      _values 'shell' bash zsh
      ;;
    render)
      _values 'flag' --no-color --timeout
      ;;
    doctor)
      _values 'flag' --json --timeout
      ;;
    tui)
      _values 'flag' --interval --timeout --no-color --no-alt-screen
      ;;
  esac
}
_claude_usage_line "$@"
`, nil
	default:
		return "", fmt.Errorf("unsupported shell %q (expected bash or zsh)", shell)
	}
}
