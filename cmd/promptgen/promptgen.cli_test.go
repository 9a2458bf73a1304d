package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-promptgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testGoSource = "package capitol\n\n" +
		"//promptgen:template(1000, 0.7)\n" +
		"const Capitol = `What is the capital of {{$state}}? Answer in {{$words:int}} words.`\n\n" +
		"//promptgen:template[HistoryCustomizable]\n" +
		"const Chat = `Talk about {{$topic}}.`\n\n" +
		"//promptgen:template(abc)\n" +
		"const Broken = `Broken {{$x}}`\n\n" +
		"const Plain = `not a template`\n"
	testTemplateContent = "Capital of {{$state}} in {{$words:int}} words"
	testDataJSON        = `{"state": "Ohio", "words": 20}`
	testExpectedOutput  = "Capital of Ohio in 20 words"
	testCapitolData     = `{"state": "Ohio", "words": 3}`
	testCapitolText     = "What is the capital of Ohio? Answer in 3 words."
	testManifest        = `namespace: travel
templates:
  - name: Packing
    text: "Pack for {{$days:int}} days in {{$city}}."
    max_tokens: 200
`
)

// setupSourceDir creates a Go package with annotated constants
func setupSourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts.go"), []byte(testGoSource), FilePermissions))
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameGenerate)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "frobnicate")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
	assert.Contains(t, stdout, "frobnicate")
}

func TestRun_HelpForEachCommand(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{CmdNameGenerate, HelpGenerateUsage},
		{CmdNameParse, HelpParseUsage},
		{CmdNameRender, HelpRenderUsage},
		{CmdNameRun, HelpRunUsage},
		{CmdNameVersion, HelpVersionUsage},
		{CmdNameHelp, HelpHelpUsage},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", CmdNameHelp, tt.cmd)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

// ==================== version tests ====================

func TestVersion_Text(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "promptgen version")
}

func TestVersion_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion, "-F", OutputFormatJSON)

	require.Equal(t, ExitCodeSuccess, code)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersion_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "", CmdNameVersion, "--format", "xml")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

func TestGetVersionInfo_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), VersionsFileName)
	content := "project:\n  version: 1.2.3\ngit:\n  commit: abc123\n  branch: main\n"
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	info := getVersionInfo([]string{filepath.Join(t.TempDir(), "missing.yaml"), path})

	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "main", info.Branch)
	assert.Equal(t, VersionUnknown, info.BuildTime)
}

// ==================== render tests ====================

func TestRender_InlineData(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.txt")
	require.NoError(t, os.WriteFile(tmpl, []byte(testTemplateContent), FilePermissions))

	code, stdout, stderr := runCLI(t, "", CmdNameRender, "-t", tmpl, "-d", testDataJSON)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestRender_Stdin(t *testing.T) {
	code, stdout, _ := runCLI(t, testTemplateContent, CmdNameRender, "-t", InputSourceStdin, "-d", testDataJSON)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestRender_DataFileAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte(testDataJSON), FilePermissions))

	code, stdout, _ := runCLI(t, testTemplateContent, CmdNameRender, "-t", "-", "-f", dataPath, "-o", outPath)

	require.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(got))
}

func TestRender_MissingTemplate(t *testing.T) {
	code, _, stderr := runCLI(t, "", CmdNameRender, "-d", testDataJSON)

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgMissingTemplate)
}

func TestRender_InvalidJSON(t *testing.T) {
	code, _, stderr := runCLI(t, testTemplateContent, CmdNameRender, "-t", "-", "-d", "{not json")

	assert.Equal(t, ExitCodeInputError, code)
	assert.Contains(t, stderr, ErrMsgInvalidJSON)
}

func TestRender_BindFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing argument", `{"state": "Ohio"}`},
		{"wrong type", `{"state": "Ohio", "words": "many"}`},
		{"unknown argument", `{"state": "Ohio", "words": 2, "extra": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, testTemplateContent, CmdNameRender, "-t", "-", "-d", tt.data)
			assert.Equal(t, ExitCodeValidationError, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, ErrMsgBindFailed)
		})
	}
}

// ==================== generate tests ====================

func TestGenerate_WritesNextToSource(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, stderr := runCLI(t, "", CmdNameGenerate, dir)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "2 written, 0 unchanged")
	assert.Contains(t, stdout, "capitol.CapitolPrompt")
	assert.Contains(t, stdout, "Broken")
	assert.NotContains(t, stdout, "Plain")

	src, err := os.ReadFile(filepath.Join(dir, "capitol_prompt.gen.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), promptgen.GeneratedCodeHeader))
	assert.Contains(t, string(src), "func NewCapitolPrompt(state string, words int) *CapitolPrompt")
	assert.FileExists(t, filepath.Join(dir, "chat_prompt.gen.go"))
}

func TestGenerate_SecondRunUnchanged(t *testing.T) {
	dir := setupSourceDir(t)

	code, _, _ := runCLI(t, "", CmdNameGenerate, "-q", dir)
	require.Equal(t, ExitCodeSuccess, code)

	code, stdout, _ := runCLI(t, "", CmdNameGenerate, "-F", OutputFormatJSON, dir)
	require.Equal(t, ExitCodeSuccess, code)

	var report promptgen.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Empty(t, report.Written)
	assert.Len(t, report.Unchanged, 2)
	assert.Equal(t, "go", report.Backend)
	assert.NotEmpty(t, report.RunID)
}

func TestGenerate_SeparateOutputAndManifest(t *testing.T) {
	dir := setupSourceDir(t)
	out := filepath.Join(t.TempDir(), "gen")
	manifest := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), FilePermissions))

	code, stdout, stderr := runCLI(t, "", CmdNameGenerate, "-m", manifest, "-o", out, dir)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "3 written")
	assert.FileExists(t, filepath.Join(out, "packing_prompt.gen.go"))
	assert.NoFileExists(t, filepath.Join(dir, "capitol_prompt.gen.go"))
}

func TestGenerate_MemoryDriver(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, _ := runCLI(t, "", CmdNameGenerate, "--driver", promptgen.StoreDriverNameMemory, dir)

	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "2 written")
	assert.NoFileExists(t, filepath.Join(dir, "capitol_prompt.gen.go"))
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := setupSourceDir(t)
	cfgPath := filepath.Join(dir, promptgen.DefaultConfigFile)
	content := "sources:\n  - .\noutput:\n  driver: filesystem\n  dsn: ./gen\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), FilePermissions))

	code, _, stderr := runCLI(t, "", CmdNameGenerate, "-c", cfgPath)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "gen", "capitol_prompt.gen.go"))
}

func TestGenerate_VerboseLogsToStderr(t *testing.T) {
	dir := setupSourceDir(t)

	code, _, stderr := runCLI(t, "", CmdNameGenerate, "-v", "--driver", promptgen.StoreDriverNameMemory, dir)

	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stderr, promptgen.LogMsgGenerateComplete)
}

func TestGenerate_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad format", []string{"-F", "yaml"}, ExitCodeUsageError},
		{"negative concurrency", []string{"-j", "-1"}, ExitCodeUsageError},
		{"unknown flag", []string{"--nope"}, ExitCodeUsageError},
		{"missing config", []string{"-c", "/does/not/exist.yaml"}, ExitCodeInputError},
		{"unknown driver", []string{"--driver", "s3", "."}, ExitCodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, "", append([]string{CmdNameGenerate}, tt.args...)...)
			assert.Equal(t, tt.code, code)
		})
	}
}

// ==================== parse tests ====================

func TestParse_Text(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, _ := runCLI(t, "", CmdNameParse, dir)

	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "capitol.CapitolPrompt (Standard)")
	assert.Contains(t, stdout, "settings: max_tokens=1000 temperature=0.7 top_p=0")
	assert.Contains(t, stdout, "param words int")
	assert.Contains(t, stdout, "capitol.ChatPrompt (HistoryCustomizable)")
	assert.Contains(t, stdout, promptgen.SkipReasonBadArgument)
}

func TestParse_JSON(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, _ := runCLI(t, "", CmdNameParse, "-F", OutputFormatJSON, dir)

	require.Equal(t, ExitCodeSuccess, code)
	var out struct {
		Artifacts []struct {
			TypeName     string `json:"type_name"`
			BehaviorKind string `json:"behavior_kind"`
		} `json:"artifacts"`
		Skipped []promptgen.SkippedDeclaration `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, "CapitolPrompt", out.Artifacts[0].TypeName)
	assert.Equal(t, promptgen.BehaviorHistoryCustomizable, out.Artifacts[1].BehaviorKind)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "Broken", out.Skipped[0].Name)
}

// ==================== run tests ====================

func TestRunCommand_FakeEchoesPrompt(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, stderr := runCLI(t, "", CmdNameRun, "-p", "Capitol", "-d", testCapitolData, dir)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testCapitolText+"\n", stdout)
}

func TestRunCommand_ScriptedResponseByTypeName(t *testing.T) {
	dir := setupSourceDir(t)

	code, stdout, _ := runCLI(t, "", CmdNameRun, "-p", "CapitolPrompt", "-d", testCapitolData, "--response", "Columbus", dir)

	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "Columbus\n", stdout)
}

func TestRunCommand_JSON(t *testing.T) {
	dir := setupSourceDir(t)
	reply := "```json\n{\"capital\": \"Columbus\"}\n```"

	code, stdout, _ := runCLI(t, "", CmdNameRun, "-p", "Capitol", "-d", testCapitolData, "--json", "--response", reply, dir)

	require.Equal(t, ExitCodeSuccess, code)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "Columbus", got["capital"])
}

func TestRunCommand_JSONUndecodable(t *testing.T) {
	dir := setupSourceDir(t)

	code, _, stderr := runCLI(t, "", CmdNameRun, "-p", "Capitol", "-d", testCapitolData, "--json", "--response", "Columbus", dir)

	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stderr, "Columbus")
}

func TestRunCommand_Errors(t *testing.T) {
	dir := setupSourceDir(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing prompt", []string{dir}, ExitCodeUsageError},
		{"unknown backend", []string{"-p", "Capitol", "-b", "openai", dir}, ExitCodeUsageError},
		{"unknown prompt", []string{"-p", "Nope", dir}, ExitCodeInputError},
		{"missing argument", []string{"-p", "Capitol", "-d", `{"state": "Ohio"}`, dir}, ExitCodeValidationError},
		{"ollama without model", []string{"-p", "Capitol", "-d", testCapitolData, "-b", BackendNameOllama, dir}, ExitCodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, "", append([]string{CmdNameRun}, tt.args...)...)
			assert.Equal(t, tt.code, code)
		})
	}
}

// ==================== helper tests ====================

func TestFindDefinition(t *testing.T) {
	defs := []promptgen.ArtifactDefinition{
		{SourceName: "APrompt", TypeName: "APromptPrompt"},
		{SourceName: "A", TypeName: "APrompt"},
	}

	def, err := findDefinition(defs, "APrompt")
	require.NoError(t, err)
	assert.Equal(t, "APromptPrompt", def.TypeName)

	_, err = findDefinition(defs, "B")
	assert.ErrorIs(t, err, errNoPrompt)
}

func TestDefaultOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prompts.go")
	require.NoError(t, os.WriteFile(file, []byte(testGoSource), FilePermissions))

	assert.Equal(t, dir, defaultOutputDir(&promptgen.Config{Sources: []string{dir}}))
	assert.Equal(t, dir, defaultOutputDir(&promptgen.Config{Sources: []string{file}}))
	assert.Equal(t, dir, defaultOutputDir(&promptgen.Config{Manifests: []string{filepath.Join(dir, "m.yaml")}}))
	assert.Equal(t, ".", defaultOutputDir(&promptgen.Config{}))
}
