package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
)

// QuestionStore loads and writes datasets kept as rows of the questions table.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// LoadBank reads a dataset in ordinal order. A dataset without rows does not exist.
func (s *QuestionStore) LoadBank(ctx context.Context, datasetID string) (*bank.Bank, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT text, options, answer, difficulty FROM questions WHERE dataset=$1 ORDER BY ordinal`,
		datasetID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Text, &q.Options, &q.Answer, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrDatasetNotFound, datasetID)
	}
	return bank.New(questions)
}

// AppendQuestion adds q after the last question of the dataset.
func (s *QuestionStore) AppendQuestion(ctx context.Context, datasetID string, q domain.Question) error {
	if _, err := bank.New([]domain.Question{q}); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO questions (dataset, ordinal, text, options, answer, difficulty)
		SELECT $1, COALESCE(MAX(ordinal), 0) + 1, $2, $3, $4, $5 FROM questions WHERE dataset=$1`,
		datasetID, q.Text, q.Options, q.Answer, q.Difficulty)
	if err != nil {
		return fmt.Errorf("append question: %w", err)
	}
	return nil
}

// ImportBank replaces the dataset with the questions of b in one transaction.
func (s *QuestionStore) ImportBank(ctx context.Context, datasetID string, b *bank.Bank) (int64, error) {
	var copied int64
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE dataset=$1`, datasetID); err != nil {
			return err
		}
		questions := b.Questions()
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"questions"},
			[]string{"dataset", "ordinal", "text", "options", "answer", "difficulty"},
			pgx.CopyFromSlice(len(questions), func(i int) ([]interface{}, error) {
				q := questions[i]
				return []interface{}{datasetID, i + 1, q.Text, q.Options, q.Answer, q.Difficulty}, nil
			}),
		)
		copied = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("import dataset %q: %w", datasetID, err)
	}
	return copied, nil
}
