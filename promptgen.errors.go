package promptgen

import (
	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Source errors
	ErrMsgSourceReadFailed    = "failed to read declaration source"
	ErrMsgSourceParseFailed   = "failed to parse declaration source"
	ErrMsgManifestInvalid     = "invalid template manifest"
	ErrMsgSourcePathNotFound  = "declaration source path not found"
	ErrMsgConfigReadFailed    = "failed to read config file"
	ErrMsgConfigParseFailed   = "failed to parse config file"
	ErrMsgConfigNoSources     = "config lists no sources"
	ErrMsgConcurrencyInvalid  = "concurrency must be positive"
	ErrMsgGeneratorNoSource   = "generator requires a declaration source"
	ErrMsgGeneratorNoStore    = "generator requires an artifact store"
	ErrMsgArtifactWriteFailed = "failed to write artifact"

	// Emit errors
	ErrMsgTemplateRenderFailed = "failed to render artifact template"
	ErrMsgFormatFailed         = "failed to format generated source"
	ErrMsgInvalidTypeName      = "artifact type name is not a valid identifier"
	ErrMsgInvalidBehavior      = "custom behavior is not a type of the host package"
	ErrMsgInvalidParamType     = "parameter type is not a type of the host package"

	// Execution errors
	ErrMsgDispatchFailed    = "chat completion dispatch failed"
	ErrMsgExecutionCanceled = "execution canceled"
	ErrMsgNilPrompt         = "prompt is nil"
	ErrMsgNilServices       = "service registry is nil"
	ErrMsgEmptyConversation = "conversation has no messages"
	ErrMsgMissingArgument   = "missing value for template parameter"
	ErrMsgInvalidArgument   = "value does not match parameter type"
	ErrMsgUnknownArgument   = "value given for unknown template parameter"

	// Registry errors
	ErrMsgServiceNotFound      = "chat completion service not found"
	ErrMsgNoDefaultService     = "no chat completion service registered"
	ErrMsgNilService           = "chat completion service is nil"
	ErrMsgEmptyServiceID       = "service ID cannot be empty"
	ErrMsgServiceAlreadyExists = "chat completion service already registered"
)

// Error code constants for categorization
const (
	ErrCodeSource     = "PROMPTGEN_SOURCE"
	ErrCodeEmit       = "PROMPTGEN_EMIT"
	ErrCodeExec       = "PROMPTGEN_EXEC"
	ErrCodeRegistry   = "PROMPTGEN_REGISTRY"
	ErrCodeStore      = "PROMPTGEN_STORE"
	ErrCodeValidation = "PROMPTGEN_VALIDATION"
)

// NewSourceError creates an error for a declaration source that could not be read.
func NewSourceError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeSource, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeSource, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewEmitError creates an error for an artifact that could not be serialized.
func NewEmitError(msg string, namespace, typeName string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeEmit, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeEmit, msg)
	}
	return err.
		WithMetadata(MetaKeyNamespace, namespace).
		WithMetadata(MetaKeyName, typeName)
}

// NewParamTypeError creates an error for a parameter whose type annotation
// cannot be written as a Go type.
func NewParamTypeError(namespace, typeName, parameter, typ string) error {
	return cuserr.NewValidationError(ErrCodeEmit, ErrMsgInvalidParamType).
		WithMetadata(MetaKeyNamespace, namespace).
		WithMetadata(MetaKeyName, typeName).
		WithMetadata(MetaKeyParameter, parameter).
		WithMetadata(MetaKeyType, typ)
}

// NewDispatchError wraps a failure reported by a chat completion service.
func NewDispatchError(serviceID string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeExec, ErrMsgDispatchFailed).
		WithMetadata(MetaKeyServiceID, serviceID)
}

// NewCanceledError wraps a context error observed before dispatch completed.
func NewCanceledError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeExec, ErrMsgExecutionCanceled)
}

// NewServiceNotFoundError creates an error for a missing chat completion service.
func NewServiceNotFoundError(serviceID string) error {
	return cuserr.NewNotFoundError(MetaKeyServiceID, ErrMsgServiceNotFound).
		WithMetadata(MetaKeyServiceID, serviceID)
}

// NewNoDefaultServiceError creates an error for an empty service registry.
func NewNoDefaultServiceError() error {
	return cuserr.NewNotFoundError(MetaKeyServiceID, ErrMsgNoDefaultService)
}

// NewRegistryError creates a validation error for a rejected registration.
func NewRegistryError(msg, serviceID string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, msg).
		WithMetadata(MetaKeyServiceID, serviceID)
}

// NewValidationError creates a plain validation error.
func NewValidationError(msg string) error {
	return cuserr.NewValidationError(ErrCodeValidation, msg)
}

// NewArgumentError creates an error for a bound parameter value.
func NewArgumentError(msg, parameter string, typ ParamType, value string) error {
	return cuserr.NewValidationError(ErrCodeValidation, msg).
		WithMetadata(MetaKeyParameter, parameter).
		WithMetadata(MetaKeyType, string(typ)).
		WithMetadata(MetaKeyValue, value)
}

// NewConfigError creates an error for an unreadable or invalid config file.
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeValidation, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeValidation, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewWriteError wraps a store failure for a single artifact.
func NewWriteError(file GeneratedFile, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStore, ErrMsgArtifactWriteFailed).
		WithMetadata(MetaKeyNamespace, file.Namespace).
		WithMetadata(MetaKeyName, file.TypeName)
}
