package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionTopic    = "topic"
	actionGenerate = "gen"
	actionAnswer   = "ans"
	actionCategory = "cat"
	actionNav      = "nav"
	actionSubmit   = "submit"
	actionResult   = "result"
	actionReview   = "review"
	actionRetry    = "retry"
	actionHistory  = "history"
	actionNoop     = "noop"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// ints parses the first n params as non-negative integers.
func (cd callbackData) ints(n int) ([]int, bool) {
	if len(cd.Params) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range cd.Params {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// attempt splits off the leading attempt number.
func (cd callbackData) attempt() (uint64, callbackData, bool) {
	if len(cd.Params) == 0 {
		return 0, cd, false
	}
	a, err := strconv.ParseUint(cd.Params[0], 10, 64)
	if err != nil {
		return 0, cd, false
	}
	rest := cd
	rest.Params = cd.Params[1:]
	return a, rest, true
}

func attemptParam(attempt uint64) string {
	return strconv.FormatUint(attempt, 10)
}

// buildTopicCallback builds callback data for toggling a topic, by catalog positions.
func buildTopicCallback(subject, topic int) string {
	return callbackData{
		Action: actionTopic,
		Params: []string{strconv.Itoa(subject), strconv.Itoa(topic)},
	}.encode()
}

func buildGenerateCallback() string {
	return actionGenerate
}

// buildAnswerCallback builds callback data for choosing an option of a question.
func buildAnswerCallback(attempt uint64, question, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{attemptParam(attempt), strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

// buildCategoryCallback builds callback data for assigning a label to a statement.
func buildCategoryCallback(attempt uint64, question, statement, label int) string {
	return callbackData{
		Action: actionCategory,
		Params: []string{
			attemptParam(attempt),
			strconv.Itoa(question),
			strconv.Itoa(statement),
			strconv.Itoa(label),
		},
	}.encode()
}

// buildNavCallback builds callback data for jumping to a question.
func buildNavCallback(attempt uint64, question int) string {
	return callbackData{
		Action: actionNav,
		Params: []string{attemptParam(attempt), strconv.Itoa(question)},
	}.encode()
}

func buildSubmitCallback(attempt uint64) string {
	return callbackData{Action: actionSubmit, Params: []string{attemptParam(attempt)}}.encode()
}

func buildResultCallback(attempt uint64) string {
	return callbackData{Action: actionResult, Params: []string{attemptParam(attempt)}}.encode()
}

// buildReviewCallback builds callback data for opening a review page.
func buildReviewCallback(attempt uint64, item int) string {
	return callbackData{
		Action: actionReview,
		Params: []string{attemptParam(attempt), strconv.Itoa(item)},
	}.encode()
}

func buildRetryCallback(attempt uint64) string {
	return callbackData{Action: actionRetry, Params: []string{attemptParam(attempt)}}.encode()
}

func buildHistoryCallback() string {
	return actionHistory
}
