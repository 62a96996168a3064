package lox

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/glycerine/liner"
)

var completion_keywords = []string{`and `, `class `, `clock()`, `else `, `false`, `for (`, `fun `, `if (`, `nil`, `or `, `print `, `return `, `true`, `var `, `while (`, `.quit`, `.ls`, `.trace`}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loxhist"
	}
	return filepath.Join(home, ".loxhist")
}

type Prompter struct {
	prompt   string
	prompter *liner.State
	history  string
}

func NewPrompter(prompt string) *Prompter {
	p := &Prompter{
		prompt:   prompt,
		prompter: liner.NewLiner(),
		history:  historyFile(),
	}

	p.prompter.SetCtrlCAborts(false)
	p.prompter.SetCompleter(func(line string) []string {
		return completeLine(line)
	})

	if f, err := os.Open(p.history); err == nil {
		p.prompter.ReadHistory(f)
		f.Close()
	}
	return p
}

// completeLine completes the last word of line against the keywords.
func completeLine(line string) (c []string) {
	i := strings.LastIndexAny(line, " \t(){};")
	head, word := line[:i+1], line[i+1:]
	if word == "" {
		return nil
	}
	for _, n := range completion_keywords {
		if strings.HasPrefix(n, word) {
			c = append(c, head+n)
		}
	}
	return
}

func (p *Prompter) Close() {
	if p.prompter == nil {
		return
	}
	defer p.prompter.Close()
	if f, err := os.Create(p.history); err != nil {
		log.Print("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt *string) (line string, err error) {
	if prompt == nil {
		line, err = p.prompter.Prompt(p.prompt)
	} else {
		line, err = p.prompter.Prompt(*prompt)
	}
	if err == nil {
		p.prompter.AppendHistory(line)
		return line, nil
	}
	return "", err
}
