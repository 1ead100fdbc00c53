package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kensmith/mancalc"
)

func main() {
	log.SetFlags(0)
	var (
		inname, mode string
		prec         int
		quiet        bool
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin)")
	flag.StringVar(&mode, "mode", "eng", "initial display mode: dec, hex, oct, bin, com, or eng")
	flag.IntVar(&prec, "p", mancalc.DefaultPrec, "precision of numbers in decimal digits")
	flag.BoolVar(&quiet, "q", false, "don't print a prompt")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	dm, err := mancalc.ParseDisplayMode(mode)
	if err != nil {
		log.Fatal(err)
	}

	in, prompt := os.Stdin, !quiet && term.IsTerminal(int(os.Stdin.Fd()))
	if inname != "" && inname != "-" {
		f, err := os.Open(inname)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in, prompt = f, false
	}

	sh := shell{
		m: mancalc.New(
			mancalc.Prec(uint(prec)),
			mancalc.Display(dm),
			mancalc.WithLogger(mancalc.StdLogger(log.Default(), mancalc.LevelInfo)),
		),
		out:    os.Stdout,
		prompt: prompt,
	}
	sh.p = mancalc.NewParser(sh.m, nil)
	for _, arg := range flag.Args() {
		sh.line(arg)
	}
	if flag.NArg() > 0 && inname == "" {
		fmt.Fprintln(sh.out, sh.m.Render())
		return
	}
	if err := sh.run(in); err != nil {
		log.Fatal(err)
	}
}

// shell reads lines and feeds them to a machine.
type shell struct {
	m      *mancalc.Machine
	p      *mancalc.Parser
	out    io.Writer
	prompt bool
	last   string
}

func (sh *shell) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		if sh.prompt {
			fmt.Fprintf(sh.out, "[ %s ]> ", sh.m.Render())
		}
		if !sc.Scan() {
			break
		}
		sh.line(sc.Text())
		if !sh.prompt {
			fmt.Fprintln(sh.out, sh.m.Render())
		}
	}
	return sc.Err()
}

// line handles one line of input. An empty line repeats the previous one. A
// line that is exactly an operator name is pushed directly, so that a lone
// "-" subtracts and "pop" pops. Anything else is an infix expression.
func (sh *shell) line(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = sh.last
		if s == "" {
			return
		}
	}
	sh.last = s
	if sh.m.HasOperator(s) {
		_ = sh.m.Push(s)
		return
	}
	n, err := sh.p.Parse(s)
	if err != nil {
		log.Printf("%v (%d bytes left)", err, len(s)-n)
	}
}
