package printing

import (
	"context"
	"testing"

	"github.com/bewloop/quark-system/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChromedpConfigFrom(t *testing.T) {
	cfg := ChromedpConfigFrom(config.PrintingConfig{
		RemoteURL:  "ws://chrome:9222",
		ChromePath: "/usr/bin/chromium",
	}, zap.NewNop())
	assert.Equal(t, "ws://chrome:9222", cfg.RemoteURL)
	assert.Equal(t, "/usr/bin/chromium", cfg.ExecPath)
	assert.True(t, cfg.NoSandbox)
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(ChromedpConfig{})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.NotNil(t, r.allocCtx)
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r, err := NewChromedpRenderer(ChromedpConfig{RemoteURL: "ws://127.0.0.1:1"})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)

	_, err = r.Render(context.Background(), nil)
	require.ErrorAs(t, err, &re)
}

func TestBuildPrintParams(t *testing.T) {
	p := buildPrintParams(&RenderRequest{HTML: "<p>x</p>"})
	assert.InDelta(t, 8.27, p.paperWidth, 0.01)
	assert.InDelta(t, 11.69, p.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(12), p.marginTop, 1e-9)
	assert.Empty(t, p.footerTemplate)

	p = buildPrintParams(&RenderRequest{
		Margins:    Margins{Top: 5, Right: 5, Bottom: 5, Left: 5},
		FooterHTML: "<div></div>",
	})
	assert.InDelta(t, mmToInches(5), p.marginTop, 1e-9)
	assert.InDelta(t, mmToInches(10), p.marginBottom, 1e-9, "footer needs room")
}

func TestCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))

	wrapped := completeHTML(&RenderRequest{HTML: "<p>x</p>", Title: "IV<1>"})
	assert.Contains(t, wrapped, "<title>IV&lt;1&gt;</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}
