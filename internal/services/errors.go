package services

import (
	"errors"
	"net/http"

	"fm-configurator/internal/gemini"
	"fm-configurator/internal/openai"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConfiguration
	KindProvider
	KindEmptyResult
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindProvider:
		return "provider"
	case KindEmptyResult:
		return "empty_result"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Stage names the pipeline step a request was in when it failed.
type Stage string

const (
	StageReceived  Stage = "received"
	StageValidated Stage = "validated"
	StageComposed  Stage = "composed"
	StageGenerated Stage = "generated"
	StageStored    Stage = "stored"
	StageResponded Stage = "responded"
)

// StageError is the single failure type produced by the pipelines. Message is
// what the client sees; Err keeps the underlying cause for logs.
type StageError struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Err     error
}

func (e *StageError) Error() string {
	return e.Message
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind onto the HTTP status. Only missing input is a
// client error.
func (e *StageError) StatusCode() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func ValidationError(stage Stage, message string) *StageError {
	return &StageError{Kind: KindValidation, Stage: stage, Message: message}
}

func ConfigurationError(message string, err error) *StageError {
	return &StageError{Kind: KindConfiguration, Stage: StageGenerated, Message: message, Err: err}
}

func ProviderError(err error) *StageError {
	return &StageError{Kind: KindProvider, Stage: StageGenerated, Message: err.Error(), Err: err}
}

func EmptyResultError(err error) *StageError {
	return &StageError{Kind: KindEmptyResult, Stage: StageGenerated, Message: MsgNoImage, Err: err}
}

func StorageError(err error) *StageError {
	return &StageError{Kind: KindStorage, Stage: StageStored, Message: err.Error(), Err: err}
}

const (
	MsgMissingFile   = "Missing file"
	MsgMissingPrompt = "Missing prompt"
	MsgNoImage       = "No image returned"
)

func classifyGemini(err error) *StageError {
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		return ConfigurationError("Missing GEMINI_API_KEY", err)
	case errors.Is(err, gemini.ErrNoImage):
		return EmptyResultError(err)
	default:
		return ProviderError(err)
	}
}

func classifyOpenAI(err error) *StageError {
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		return ConfigurationError("Missing OPENAI_API_KEY", err)
	case errors.Is(err, openai.ErrNoImage):
		return EmptyResultError(err)
	default:
		return ProviderError(err)
	}
}

// Result is the outcome of one pipeline run: a response body or a StageError,
// never both.
type Result[T any] struct {
	Value T
	Err   *StageError
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fail[T any](err *StageError) Result[T] {
	return Result[T]{Err: err}
}
