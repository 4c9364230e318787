package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gapquiz/internal/questiongen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one batch of practice questions",
	Example: `  gapquiz generate --user English=20,Mathematics=11,Reading=11,Science=19 \
    --regional English=15,Mathematics=15,Reading=15,Science=15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userFlag, _ := cmd.Flags().GetString("user")
		regionalFlag, _ := cmd.Flags().GetString("regional")
		asJSON, _ := cmd.Flags().GetBool("json")

		user, err := questiongen.ParseProfile(userFlag)
		if err != nil {
			return fmt.Errorf("--user: %w", err)
		}
		regional, err := questiongen.ParseProfile(regionalFlag)
		if err != nil {
			return fmt.Errorf("--regional: %w", err)
		}

		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.generator.Generate(cmd.Context(), user, regional)

		out := cmd.OutOrStdout()
		if asJSON {
			if err := writeResultJSON(out, result); err != nil {
				return err
			}
		} else {
			writeResultText(out, result)
		}

		if result.Path == questiongen.PathServiceError {
			return fmt.Errorf("generation failed: %w", result.Err)
		}
		return nil
	},
}

type resultJSON struct {
	BatchID   string                       `json:"batch_id"`
	Path      string                       `json:"path"`
	Model     string                       `json:"model"`
	Questions []questiongen.QuestionRecord `json:"questions"`
}

func writeResultJSON(w io.Writer, r questiongen.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultJSON{
		BatchID:   r.BatchID,
		Path:      string(r.Path),
		Model:     r.Model,
		Questions: r.Questions,
	})
}

func writeResultText(w io.Writer, r questiongen.Result) {
	fmt.Fprintf(w, "Batch %s (%s, %d questions, %s)\n", r.BatchID, r.Path, len(r.Questions), r.Model)
	fmt.Fprintln(w, strings.Repeat("\u2500", 60))

	for i, q := range r.Questions {
		fmt.Fprintf(w, "\n%d. [%s, %s] %s\n", i+1, q.Category, q.Difficulty, q.Question)
		if q.Context != "" {
			fmt.Fprintf(w, "   Context: %s\n", q.Context)
		}
		for _, letter := range questiongen.OptionLetters {
			fmt.Fprintf(w, "   %s) %s\n", letter, q.Options.Get(letter))
		}
		fmt.Fprintf(w, "   Answer: %s\n", q.CorrectOption)
		if q.Explanation != "" {
			fmt.Fprintf(w, "   Explanation: %s\n", q.Explanation)
		}
	}
}

func init() {
	generateCmd.Flags().String("user", "", "Student scores as Subject=Score,... (required)")
	generateCmd.Flags().String("regional", "", "Regional average scores as Subject=Score,... (required)")
	generateCmd.Flags().Bool("json", false, "Print the batch as JSON")
	_ = generateCmd.MarkFlagRequired("user")
	_ = generateCmd.MarkFlagRequired("regional")
}
