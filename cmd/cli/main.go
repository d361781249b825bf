package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"golang.org/x/term"

	"github.com/pep299/leeai-studio/internal/model"
	"github.com/pep299/leeai-studio/internal/panel"
	"github.com/pep299/leeai-studio/internal/render"
	"github.com/pep299/leeai-studio/internal/session"
	"github.com/pep299/leeai-studio/internal/source"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// stdin feeds the interactive session commands
var stdin io.Reader = os.Stdin

const usage = `LeeAI Studio CLI

Usage: leeai -tool <tool> [sources] [options]

Tools:
  %s

Sources (at least one):
  -text "..."        pasted text
  -file path         .txt, .md, .html, .pdf or .xlsx file (repeatable)
  -link url          web page (repeatable)

Session commands:
  flashcards   f flip, n next, p prev, s shuffle
  quiz         a-d answer, r reveal (or restart when done), n next, p prev
  slides       n next, p prev, g <n> go to slide
  all          q quit

Generated material is cached by the server; -regenerate asks for a new version.

Options:
`

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("leeai", flag.ContinueOnError)
	var (
		server      = fs.String("server", panel.DefaultBaseURL, "LeeAI server URL")
		toolName    = fs.String("tool", "", "Tool to run, e.g. \"Key Facts\" or key-facts")
		count       = fs.Int("count", model.DefaultQuizCount, "Number of quiz questions (5, 10, 15 or 20)")
		qType       = fs.String("type", string(model.MultipleChoice), "Quiz question type: multiple-choice or short-answer")
		text        = fs.String("text", "", "Pasted text source")
		out         = fs.String("out", "audio-summary.mp3", "Where to save an audio summary")
		regenerate  = fs.Bool("regenerate", false, "Ignore cached results and generate fresh material")
		showHelp    = fs.Bool("help", false, "Show help message")
		showVersion = fs.Bool("version", false, "Show version information")
		files       stringList
		links       stringList
	)
	fs.Var(&files, "file", "Source file (repeatable)")
	fs.Var(&links, "link", "Source URL (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showHelp {
		names := make([]string, len(model.Tools))
		for i, t := range model.Tools {
			names[i] = string(t)
		}
		fmt.Printf(usage, strings.Join(names, "\n  "))
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		return 0
	}

	if *showVersion {
		fmt.Printf("LeeAI Studio CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		return 0
	}

	tool, err := model.ParseToolType(*toolName)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%v, see -help\n", err))
		return 1
	}
	if tool == model.ToolQuiz && !slices.Contains(model.AllowedQuizCounts, *count) {
		ancli.PrintErr(fmt.Sprintf("quiz count must be one of %v, got %d\n", model.AllowedQuizCounts, *count))
		return 1
	}

	var specs []source.Spec
	if strings.TrimSpace(*text) != "" {
		specs = append(specs, source.Spec{Kind: source.KindText, Value: *text})
	}
	for _, f := range files {
		specs = append(specs, source.Spec{Kind: source.KindFile, Value: f})
	}
	for _, l := range links {
		specs = append(specs, source.Spec{Kind: source.KindLink, Value: l})
	}
	if len(specs) == 0 {
		ancli.PrintErr("add at least one source with -text, -file or -link\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := source.NewLoader().LoadAll(ctx, specs)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to load sources: %v\n", err))
		return 1
	}

	req := model.GenerateRequest{
		ToolType:   tool,
		Context:    source.BuildContext(sources),
		Regenerate: *regenerate,
	}
	if tool == model.ToolQuiz {
		req.Count = count
		req.QuestionType = *qType
	}

	ancli.PrintOK(fmt.Sprintf("generating %s from %d source(s)\n", tool, len(sources)))
	ctrl := panel.NewController(panel.NewClient(*server), "")
	defer ctrl.Close()

	state, err := ctrl.Run(ctx, req)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		return 1
	}
	if state.Phase == panel.Failed {
		ancli.PrintErr(state.Err + "\n")
		return 1
	}

	if state.AudioPath != "" {
		if err := saveAudio(state.AudioPath, *out); err != nil {
			ancli.PrintErr(fmt.Sprintf("failed to save audio: %v\n", err))
			return 1
		}
		fmt.Printf("🎙️ Audio summary saved to %s\n", *out)
		return 0
	}

	view := render.Build(tool, state.Content, state.QuestionType)
	fmt.Print(render.Text(view))
	if !view.Interactive {
		return 0
	}

	fmt.Println(rule())
	switch view.Kind {
	case render.KindFlashcards:
		runDeck(view)
	case render.KindQuiz:
		runQuiz(view)
	case render.KindSlides:
		runSlides(view)
	}
	return 0
}

func saveAudio(tmp, dst string) error {
	audio, err := os.ReadFile(tmp)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, audio, 0o644)
}

// commands yields trimmed input lines until EOF or "q"
func commands(yield func(cmd, arg string)) {
	interactive := false
	if f, ok := stdin.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	scanner := bufio.NewScanner(stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		cmd = strings.ToLower(cmd)
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return
		}
		yield(cmd, strings.TrimSpace(arg))
		fmt.Println(rule())
	}
}

func runDeck(view render.View) {
	deck := session.NewDeck(view.Cards, nil)
	// No flip animation to wait for in a terminal
	deck.Delay = 0

	show := func() {
		card, _ := deck.Current()
		fmt.Print(render.CardText(card, deck.State()))
	}
	show()
	commands(func(cmd, _ string) {
		switch cmd {
		case "f":
			deck.Flip()
		case "n":
			deck.Next()
		case "p":
			deck.Prev()
		case "s":
			deck.ToggleShuffle()
		default:
			fmt.Println("f flip, n next, p prev, s shuffle, q quit")
			return
		}
		show()
	})
}

func runQuiz(view render.View) {
	var questions session.Questions = session.MCSet(view.MCQuestions)
	if view.QuestionType == model.ShortAnswer {
		questions = session.SASet(view.SAQuestions)
	}
	quiz := session.NewQuiz(questions)

	show := func(s session.QuizState) {
		if !s.Done {
			fmt.Print(render.QuestionText(view, s))
			return
		}
		if result, ok := quiz.Result(); ok {
			fmt.Print(render.ResultText(result))
		} else {
			fmt.Println("🎉 All questions reviewed")
		}
		fmt.Println("r to restart, q to quit")
	}
	show(quiz.State())
	commands(func(cmd, _ string) {
		var s session.QuizState
		switch cmd {
		case "a", "b", "c", "d":
			s = quiz.Answer(cmd)
		case "r":
			if quiz.State().Done {
				s = quiz.Restart()
			} else {
				s = quiz.Reveal()
			}
		case "n":
			s = quiz.Next()
		case "p":
			s = quiz.Prev()
		default:
			fmt.Println("a-d answer, r reveal or restart, n next, p prev, q quit")
			return
		}
		show(s)
	})
}

func runSlides(view render.View) {
	nav := session.NewNavigator(len(view.Slides))

	show := func(s session.NavState) {
		fmt.Print(render.SlideText(view.Slides[s.Current], s, nav.Len()))
	}
	show(nav.State())
	commands(func(cmd, arg string) {
		var s session.NavState
		switch cmd {
		case "n":
			s = nav.Next()
		case "p":
			s = nav.Prev()
		case "g":
			i, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: g <slide number>")
				return
			}
			s = nav.SetSlide(i - 1)
		default:
			fmt.Println("n next, p prev, g <n> go to slide, q quit")
			return
		}
		show(s)
	})
}

// rule is a separator sized to the terminal, 40 wide when not attached to one
func rule() string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 40
	}
	return strings.Repeat("─", min(width, 80))
}
