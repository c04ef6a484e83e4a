package bank

import (
	"encoding/json"

	"upsc-trainer/internal/domain"
)

// RawRecord is the union of the two bank field conventions seen in the wild:
// the native one (text/correct/type/imgUrl/parentText) and the external one
// (question/answerIndex/kind/imageUrl/passageText). Normalize collapses both
// into the canonical domain.Question; the raw shape never escapes this package.
type RawRecord struct {
	ID          json.RawMessage `json:"id"`
	Text        string          `json:"text"`
	Question    string          `json:"question"`
	Options     []string        `json:"options"`
	Correct     *int            `json:"correct"`
	AnswerIndex *int            `json:"answerIndex"`
	Explanation string          `json:"explanation"`
	Type        string          `json:"type"`
	Kind        string          `json:"kind"`
	Subject     string          `json:"subject"`
	Topic       string          `json:"topic"`
	Year        int             `json:"year"`
	Difficulty  string          `json:"difficulty"`
	ImgURL      string          `json:"imgUrl"`
	ImageURL    string          `json:"imageUrl"`
	ParentText  string          `json:"parentText"`
	PassageText string          `json:"passageText"`
}

// Unwrap extracts the record list from a bank payload. Payloads are either a
// bare array or an object carrying a "questions" array; anything else is
// domain.ErrInvalidFormat and callers treat the bank as empty.
func Unwrap(payload []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(payload, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Questions []RawRecord `json:"questions"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Questions != nil {
		return wrapped.Questions, nil
	}
	return nil, domain.ErrInvalidFormat
}

// Normalize maps a raw record onto the canonical shape. The mapping is total:
// every record from a recognized payload yields exactly one question, with
// best-effort defaults for anything missing.
func Normalize(raw RawRecord) domain.Question {
	q := domain.Question{
		ID:          canonicalID(raw.ID),
		Text:        firstNonEmpty(raw.Text, raw.Question),
		Options:     raw.Options,
		Explanation: raw.Explanation,
		Kind:        normalizeKind(firstNonEmpty(raw.Type, raw.Kind)),
		Subject:     firstNonEmpty(raw.Subject, "Mixed"),
		Topic:       firstNonEmpty(raw.Topic, "General"),
		Year:        raw.Year,
		Difficulty:  raw.Difficulty,
		ImageURL:    firstNonEmpty(raw.ImgURL, raw.ImageURL),
		PassageText: firstNonEmpty(raw.ParentText, raw.PassageText),
	}
	if raw.Correct != nil {
		q.CorrectIndex = *raw.Correct
	} else if raw.AnswerIndex != nil {
		q.CorrectIndex = *raw.AnswerIndex
	}
	return q
}

// NormalizeAll maps a record list through Normalize.
func NormalizeAll(records []RawRecord) []domain.Question {
	questions := make([]domain.Question, 0, len(records))
	for _, raw := range records {
		questions = append(questions, Normalize(raw))
	}
	return questions
}

// normalizeKind folds external taxonomy values onto the internal kinds.
// Unrecognized values pass through unchanged rather than failing.
func normalizeKind(kind string) domain.QuestionKind {
	switch kind {
	case "", "mcq":
		return domain.KindStandard
	case string(domain.KindStandard), string(domain.KindPassage), string(domain.KindImage):
		return domain.QuestionKind(kind)
	default:
		return domain.QuestionKind(kind)
	}
}

// canonicalID renders string or numeric JSON ids as one stable string form.
func canonicalID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseBank unwraps and normalizes a payload in one step. Unrecognized
// payloads come back as an empty list together with the format error, so the
// caller can log and fall through to the demo set.
func ParseBank(payload []byte) ([]domain.Question, error) {
	records, err := Unwrap(payload)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(records), nil
}
