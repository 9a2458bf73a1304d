package promptgen

import "time"

// MarkerName is the directive that turns a const into a prompt template.
const MarkerName = "promptgen:template"

// Declaration defaults applied when marker arguments are omitted
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.5
	DefaultTopP        = 0.0
	DefaultNamespace   = "prompts"
)

// Marker argument positions
const (
	ArgIndexMaxTokens   = 0
	ArgIndexTemperature = 1
	ArgIndexTopP        = 2
	MaxMarkerArgs       = 3
)

// Behavior identifiers - the execution runtime an artifact inherits
const (
	BehaviorStandard            = "Standard"
	BehaviorHistoryCustomizable = "HistoryCustomizable"
	BehaviorKindNameCustom      = "Custom"
)

// Artifact naming constants
const (
	ArtifactSuffix       = "Prompt"
	ConstructorPrefix    = "New"
	GeneratedFileSuffix  = "_prompt.gen.go"
	GeneratedCodeHeader  = "// Code generated by promptgen. DO NOT EDIT."
	RuntimeImportPath    = "github.com/itsatony/go-promptgen"
	RuntimePackageName   = "promptgen"
	TemplateConstSuffix  = "Template"
	FingerprintByteCount = 16
)

// Structured response constants - fences stripped before JSON decoding
const (
	JSONFenceTagged = "```json"
	JSONFenceBare   = "```"
)

// Generator defaults
const (
	DefaultConcurrency = 8
)

// Store driver names
const (
	StoreDriverNameMemory     = "memory"
	StoreDriverNameFilesystem = "filesystem"
	StoreDriverNamePostgres   = "postgres"
)

// Filesystem store constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
)

// Postgres store defaults
const (
	PostgresDefaultMaxOpenConns    = 10
	PostgresDefaultMaxIdleConns    = 2
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
	PostgresTablePrefix            = "promptgen_"
)

// Meta key constants for error metadata
const (
	MetaKeyName      = "name"
	MetaKeyNamespace = "namespace"
	MetaKeyParameter = "parameter"
	MetaKeyType      = "type"
	MetaKeyValue     = "value"
	MetaKeyServiceID = "service_id"
	MetaKeyPath      = "path"
)

// Log message constants
const (
	LogMsgDiscoverStart        = "discovering declarations"
	LogMsgDiscoverComplete     = "declarations discovered"
	LogMsgDeclarationSkipped   = "declaration skipped"
	LogMsgDeclarationExtracted = "declaration extracted"
	LogMsgArtifactEmitted      = "artifact emitted"
	LogMsgArtifactWritten      = "artifact written"
	LogMsgArtifactUnchanged    = "artifact unchanged"
	LogMsgArtifactDuplicate    = "duplicate artifact name"
	LogMsgArtifactSkipped      = "artifact skipped"
	LogMsgGenerateComplete     = "generation complete"
	LogMsgServiceRegistered    = "chat service registered"
	LogMsgServiceCollision     = "chat service registration collision - first-come-wins"
	LogMsgDispatchStart        = "dispatching conversation"
	LogMsgDispatchComplete     = "dispatch complete"
	LogMsgDispatchFailed       = "dispatch failed"
	LogMsgStructuredDecodeFail = "structured response did not decode"
)

// Log field names
const (
	LogFieldName        = "name"
	LogFieldNamespace   = "namespace"
	LogFieldReason      = "reason"
	LogFieldSource      = "source"
	LogFieldCandidates  = "candidate_count"
	LogFieldDecls       = "declaration_count"
	LogFieldParameters  = "parameter_count"
	LogFieldFile        = "file"
	LogFieldWritten     = "written"
	LogFieldUnchanged   = "unchanged"
	LogFieldSkipped     = "skipped"
	LogFieldRunID       = "run_id"
	LogFieldServiceID   = "service_id"
	LogFieldMessages    = "message_count"
	LogFieldDuration    = "duration"
	LogFieldResponseLen = "response_length"
	LogFieldBehavior    = "behavior"
)

// Skip reasons reported in logs and generation reports
const (
	SkipReasonNoMarker      = "no template marker"
	SkipReasonNotConst      = "not a constant"
	SkipReasonNotText       = "not a text value"
	SkipReasonMissingName   = "missing name"
	SkipReasonMissingText   = "missing text"
	SkipReasonBadArgument   = "invalid marker argument"
	SkipReasonTooManyArgs   = "too many marker arguments"
	SkipReasonDuplicateName = "duplicate artifact name"
	SkipReasonBadBehavior   = "behavior is not an identifier"
	SkipReasonEmitFailed    = "artifact could not be serialized"
)
