package printing

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/labels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSheet(t *testing.T) []labels.Label {
	t.Helper()
	barcode, err := labels.AllocateEAN13("885", 1)
	require.NoError(t, err)

	label, err := labels.NewLabel(
		uuid.New(), "Summer Dress", "Red", "M",
		decimal.NewFromInt(100), "THB", barcode,
	)
	require.NoError(t, err)
	return []labels.Label{*label}
}

func TestBuildSheetHTML(t *testing.T) {
	t.Run("renders one cell per label", func(t *testing.T) {
		sheet := sampleSheet(t)

		html, err := BuildSheetHTML(sheet)

		require.NoError(t, err)
		assert.Contains(t, html, "Summer Dress")
		assert.Contains(t, html, "Red / M")
		assert.Contains(t, html, "100.00 THB")
		assert.Contains(t, html, "<svg")
		assert.Contains(t, html, sheet[0].Barcode)
	})

	t.Run("escapes markup in group names", func(t *testing.T) {
		sheet := sampleSheet(t)
		sheet[0].GroupName = `<b>Dress</b>`

		html, err := BuildSheetHTML(sheet)

		require.NoError(t, err)
		assert.NotContains(t, html, "<b>Dress</b>")
		assert.Contains(t, html, "&lt;b&gt;Dress&lt;/b&gt;")
	})
}

func TestHTMLSheetRenderer_Render(t *testing.T) {
	t.Run("returns HTML document", func(t *testing.T) {
		renderer := NewHTMLSheetRenderer()

		out, err := renderer.Render(context.Background(), sampleSheet(t))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "<!DOCTYPE html>"))
	})

	t.Run("rejects empty sheet", func(t *testing.T) {
		renderer := NewHTMLSheetRenderer()

		_, err := renderer.Render(context.Background(), nil)

		assert.Error(t, err)
	})
}
