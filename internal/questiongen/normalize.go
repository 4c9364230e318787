package questiongen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
)

// Normalizer converts a model reply into question records. It never
// fails: every call yields at least one record.
type Normalizer struct {
	validators []Validator
	logger     *zap.Logger
}

// NewNormalizer creates a Normalizer that runs validators, in order, on
// every record decoded from the structured path.
func NewNormalizer(validators []Validator, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{validators: validators, logger: logger}
}

// Normalize parses raw and reports which path produced the records.
func (n *Normalizer) Normalize(raw string) ([]QuestionRecord, Path) {
	text := stripFence(raw)

	if records := n.parseStructured(text); len(records) > 0 {
		return records, PathStructured
	}

	if records := parseFallback(text); len(records) > 0 {
		return records, PathFallback
	}

	return []QuestionRecord{SentinelRecord()}, PathSentinel
}

// ServiceFailure returns the single error record for a failed completion
// call.
func (n *Normalizer) ServiceFailure(err error) ([]QuestionRecord, Path) {
	return []QuestionRecord{ErrorRecord(err.Error())}, PathServiceError
}

// parseStructured decodes text as a JSON array and keeps the elements that
// match the question schema and pass every validator, in model order.
func (n *Normalizer) parseStructured(text string) []QuestionRecord {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		n.logger.Debug("reply is not a JSON array", zap.Error(err))
		return nil
	}

	schema, err := questionSchema()
	if err != nil {
		n.logger.Error("question schema unavailable", zap.Error(err))
		return nil
	}

	records := make([]QuestionRecord, 0, len(elems))
	for i, elem := range elems {
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(elem))
		if err != nil {
			n.logger.Debug("dropping element", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := schema.Validate(inst); err != nil {
			n.logger.Debug("dropping element", zap.Int("index", i), zap.String("reason", "schema"), zap.Error(err))
			continue
		}

		var rr rawRecord
		if err := json.Unmarshal(elem, &rr); err != nil {
			n.logger.Debug("dropping element", zap.Int("index", i), zap.Error(err))
			continue
		}

		rec := rr.record()
		if verr := n.validate(&rec); verr != nil {
			n.logger.Debug("dropping element", zap.Int("index", i), zap.String("reason", verr.Validator), zap.String("message", verr.Message))
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (n *Normalizer) validate(r *QuestionRecord) *ValidationError {
	for _, v := range n.validators {
		if verr := v.Validate(r); verr != nil {
			return verr
		}
	}
	return nil
}

// flexString accepts a JSON string, number, boolean or null and keeps its
// text. Null reads as "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	// Numbers and booleans keep their literal form.
	*f = flexString(b)
	return nil
}

type rawOptions struct {
	A flexString `json:"A"`
	B flexString `json:"B"`
	C flexString `json:"C"`
	D flexString `json:"D"`
}

type rawRecord struct {
	Context       flexString `json:"context"`
	Question      flexString `json:"question"`
	Options       rawOptions `json:"options"`
	CorrectOption flexString `json:"correct_option"`
	Explanation   flexString `json:"explanation"`
	Category      flexString `json:"category"`
	Difficulty    flexString `json:"difficulty"`
}

// record keeps the model's text as written. Only the answer key is
// canonicalized and a blank category defaulted.
func (r rawRecord) record() QuestionRecord {
	category := string(r.Category)
	if strings.TrimSpace(category) == "" {
		category = defaultCategory
	}
	return QuestionRecord{
		Context:  string(r.Context),
		Question: string(r.Question),
		Options: Options{
			A: string(r.Options.A),
			B: string(r.Options.B),
			C: string(r.Options.C),
			D: string(r.Options.D),
		},
		CorrectOption: strings.ToUpper(strings.TrimSpace(string(r.CorrectOption))),
		Explanation:   string(r.Explanation),
		Category:      category,
		Difficulty:    string(r.Difficulty),
	}
}
