// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeStoreDatabaseFailure Code = "store.database.failure"
	CodeStoreProductNotFound Code = "store.product.get.not_found"
	CodeStoreInvalidInput    Code = "store.invalid_input"
	CodeStoreSwapFailure     Code = "store.swap.failure"

	CodeProviderEmbedFailure  Code = "provider.embedding.request.upstream_failure"
	CodeProviderEmbedTimeout  Code = "provider.embedding.request.timeout"
	CodeProviderEmbedInvalid  Code = "provider.embedding.response.invalid"
	CodeProviderConfigInvalid Code = "provider.config.invalid_value"

	CodeIngestBatchFailure   Code = "ingest.batch.failure"
	CodeIngestSourceInvalid  Code = "ingest.source.invalid_format"
	CodeIngestAlreadyRunning Code = "ingest.run.conflict"

	CodeEngineQueryInvalid Code = "engine.query.invalid_input"

	CodeToolNotFound        Code = "tool.operation.not_found"
	CodeToolArgumentInvalid Code = "tool.argument.invalid_format"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeServerStartFailure    Code = "server.start.failure"
	CodeServerInternalFailure Code = "server.internal.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeCLIInputInvalid Code = "cli.input.invalid"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldLinkID(value string) Attr {
	return Field("link_id", value)
}

func FieldCategory(value string) Attr {
	return Field("category", value)
}

func FieldBatch(value int) Attr {
	return Field("batch", value)
}

func FieldOperation(value string) Attr {
	return Field("operation", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeServerInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func IsTimeout(err error) bool {
	return reason(CodeOf(err)) == "timeout"
}

func IsConflict(err error) bool {
	return reason(CodeOf(err)) == "conflict"
}

func IsUpstreamFailure(err error) bool {
	return reason(CodeOf(err)) == "upstream_failure"
}

// IsProviderFailure reports whether the error originated in the embedding
// provider, covering both upstream failures and timeouts.
func IsProviderFailure(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "provider.")
}

// IsStoreFailure reports whether the error originated in the catalog store
// or vector index.
func IsStoreFailure(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "store.")
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsTimeout(err):
		return http.StatusGatewayTimeout
	case IsUpstreamFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeServerInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
