package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/translators"
)

const testPipelineYAML = `components:
  text_translator:
    type: github.com/nerdneilsfield/deepl-pipeline/pkg/translators.TextTranslator
    init_parameters:
      api_key:
        type: env_var
        env_vars: [DEEPL_API_KEY]
        strict: true
      target_lang: DE
      formality: prefer_more
  document_translator:
    type: github.com/nerdneilsfield/deepl-pipeline/pkg/translators.DocumentTranslator
    init_parameters:
      target_lang: [ES, FR]
      include_score: false
`

func writeTestPipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPipeline(t *testing.T) {
	t.Setenv("DEEPL_API_KEY", "test-api-key")

	components, err := LoadPipeline(writeTestPipeline(t, testPipelineYAML))
	require.NoError(t, err)
	require.Len(t, components, 2)

	_, ok := components["text_translator"].(*translators.TextTranslator)
	assert.True(t, ok, "text_translator should be a TextTranslator")

	_, ok = components["document_translator"].(*translators.DocumentTranslator)
	assert.True(t, ok, "document_translator should be a DocumentTranslator")
}

func TestLoadPipelineErrors(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadPipeline(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("No Components", func(t *testing.T) {
		_, err := LoadPipeline(writeTestPipeline(t, "components: {}\n"))
		assert.Error(t, err)
	})

	t.Run("Unknown Component Type", func(t *testing.T) {
		_, err := LoadPipeline(writeTestPipeline(t, `components:
  mystery:
    type: example.Unknown
    init_parameters: {}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mystery")
	})

	t.Run("Unresolvable Credential", func(t *testing.T) {
		_, err := LoadPipeline(writeTestPipeline(t, `components:
  text_translator:
    type: github.com/nerdneilsfield/deepl-pipeline/pkg/translators.TextTranslator
    init_parameters:
      api_key:
        type: env_var
        env_vars: [DEEPL_PIPELINE_TEST_UNSET]
        strict: true
      target_lang: DE
`))
		assert.Error(t, err)
	})
}
