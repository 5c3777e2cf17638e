package bank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"logicquest/internal/domain"
)

// Files names the four parallel dataset files inside a dataset directory.
type Files struct {
	Questions  string
	Options    string
	Answers    string
	Difficulty string
}

// DefaultFiles are the dataset file names used when none are configured.
func DefaultFiles() Files {
	return Files{
		Questions:  "questions.txt",
		Options:    "options.txt",
		Answers:    "answers.txt",
		Difficulty: "difficulty.txt",
	}
}

// Load opens the four dataset files from fsys and parses them into a bank.
func Load(fsys fs.FS, files Files) (*Bank, error) {
	names := []string{files.Questions, files.Options, files.Answers, files.Difficulty}
	readers := make([]io.Reader, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrDataset, name, err)
		}
		readers = append(readers, strings.NewReader(string(data)))
	}
	return Parse(readers[0], readers[1], readers[2], readers[3])
}

// Parse builds a bank from the four dataset streams. No partial bank is ever returned.
func Parse(questions, options, answers, difficulty io.Reader) (*Bank, error) {
	texts, err := parseNumbered(questions)
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	optionBlocks, err := parseOptionBlocks(options)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	answerTexts, err := parseNumbered(answers)
	if err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	weights, err := parseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("difficulty: %w", err)
	}

	n := len(texts)
	if len(optionBlocks) != n || len(answerTexts) != n || len(weights) != n {
		return nil, fmt.Errorf("%w: questions=%d options=%d answers=%d difficulty=%d",
			domain.ErrDatasetMismatch, n, len(optionBlocks), len(answerTexts), len(weights))
	}

	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			Text:       texts[i],
			Options:    optionBlocks[i],
			Answer:     answerTexts[i],
			Difficulty: weights[i],
		}
	}
	return New(qs)
}

// parseNumbered reads "<ordinal>.<text>" lines. Lines without a dot are skipped.
func parseNumbered(r io.Reader) ([]string, error) {
	var out []string
	err := eachLine(r, func(line string) error {
		_, text, ok := strings.Cut(line, ".")
		if !ok {
			return nil
		}
		out = append(out, strings.TrimSpace(text))
		return nil
	})
	return out, err
}

// parseOptionBlocks reads blank-line separated blocks, one option per line.
func parseOptionBlocks(r io.Reader) ([][]string, error) {
	var (
		blocks  [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
		current = nil
	}
	err := eachLine(r, func(line string) error {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			return nil
		}
		if len(current) == 0 && isBareOrdinal(trimmed) {
			return nil
		}
		current = append(current, trimmed)
		return nil
	})
	flush()
	return blocks, err
}

// isBareOrdinal matches numbering artifacts such as "." or "12.".
func isBareOrdinal(s string) bool {
	head, ok := strings.CutSuffix(s, ".")
	if !ok {
		return false
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseDifficulty(r io.Reader) ([]int, error) {
	var out []int
	lineNo := 0
	err := eachLine(r, func(line string) error {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		_, raw, ok := strings.Cut(trimmed, ".")
		if !ok {
			return fmt.Errorf("%w: line %d: expected <ordinal>.<weight>, got %q", domain.ErrDataset, lineNo, trimmed)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || weight <= 0 {
			return fmt.Errorf("%w: line %d: weight %q is not a positive integer", domain.ErrDataset, lineNo, raw)
		}
		out = append(out, weight)
		return nil
	})
	return out, err
}

func eachLine(r io.Reader, fn func(line string) error) error {
	if r == nil {
		return fmt.Errorf("%w: missing source", domain.ErrDataset)
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := fn(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, domain.ErrDataset) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrDataset, err)
	}
	return nil
}

// FormatQuestion renders q as the four dataset fragments for ordinal n (1-based).
func FormatQuestion(n int, q domain.Question) (question, options, answer, difficulty string) {
	question = fmt.Sprintf("%d.%s\n", n, q.Text)
	options = fmt.Sprintf("%d.\n%s\n", n, strings.Join(q.Options, "\n"))
	answer = fmt.Sprintf("%d.%s\n", n, q.Answer)
	difficulty = fmt.Sprintf("%d.%d\n", n, q.Difficulty)
	return question, options, answer, difficulty
}
