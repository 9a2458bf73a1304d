// Package promptgen generates strongly-typed prompt types from annotated
// string constants and provides the runtime those types execute on.
//
// A template author marks a constant with a directive:
//
//	//go:generate promptgen generate .
//
//	//promptgen:template(1000, 0.7)
//	const Capitol = `What is the capital of {{$state}}? Answer in {{$words:int}} words.`
//
// and go generate produces capitol_prompt.gen.go with a CapitolPrompt type,
// a NewCapitolPrompt(state string, words int) constructor, Text, Settings,
// Execute and ExecuteWithHistory.
//
// # Placeholders
//
// A placeholder is {{$name}} or {{$name:type}}. The first occurrence of a
// name decides its type; later occurrences may omit it. Built-in types are
// text (the default), int, int64, float and bool, with aliases such as
// string, integer, long, double and boolean. Any other type annotation names
// an enumeration or user type and is used verbatim.
//
// # Marker
//
// The directive takes up to three optional positional arguments
// (maxTokens, temperature, topP), defaulting to 500, 0.5 and 0. A behavior
// in brackets selects what the generated type embeds:
//
//	//promptgen:template[HistoryCustomizable](1000, 0.7, 0.9)
//
// Standard (the default) sends the rendered text as a single user message.
// Both Standard and HistoryCustomizable apply a history callback given to
// ExecuteWithHistory; HistoryCustomizable marks prompts meant to be run with
// one. Any other name refers to a type in the host package that implements
// Behavior, usually by embedding one of the two.
//
// # Pipeline
//
// A DeclarationSource offers candidates (GoSource, ManifestSource,
// StaticSource). ExtractDeclarations keeps the qualifying ones, Resolve
// parses their placeholders, Emit builds a language-neutral
// ArtifactDefinition and a Backend serializes it. Generator runs the whole
// pipeline concurrently and writes the results to an ArtifactStore.
//
// # Runtime
//
// Generated types satisfy Prompt. Execute, ExecuteWithHistory and
// ExecuteJSON dispatch a prompt to a ChatCompletion service held by a
// ServiceRegistry. Service implementations live in the backend packages.
package promptgen
