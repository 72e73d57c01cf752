package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/reval/pkg/data"
)

func testReportInput() (*data.Property, *data.Valuation) {
	now := time.Now().UTC().Format(time.RFC3339)
	p := &data.Property{
		ZPID:         "12345",
		Address:      "123 Main St",
		City:         "Portland",
		State:        "OR",
		PropertyType: "Single Family",
		Price:        500000,
		Zestimate:    520000,
		Bedrooms:     3,
		Bathrooms:    2.5,
		LivingArea:   1850,
		YearBuilt:    2005,
		FetchedAt:    now,
	}
	v := &data.Valuation{
		ZPID:       "12345",
		Composite:  78.5,
		Confidence: 0.92,
		Created:    now,
		Factors: []*data.ValuationFactor{
			{Factor: "location", Score: 82, Weight: 0.25, Rationale: "Good school district."},
			{Factor: "condition", Score: 75, Weight: 0.20, Rationale: "Built in 2005."},
		},
	}
	return p, v
}

func TestNewGenerator(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	g, err := NewGenerator(dir)
	require.NoError(t, err)
	require.NotNil(t, g)

	// Output dir is created eagerly.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewGenerator("")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	g, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	p, v := testReportInput()
	path, err := g.Generate(p, v)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "reVal_Report_123_Main_St_"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerate_MissingInput(t *testing.T) {
	g, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	p, v := testReportInput()

	_, err = g.Generate(nil, v)
	assert.Error(t, err)
	_, err = g.Generate(p, nil)
	assert.Error(t, err)
}

func TestGenerate_SkipsUnreachablePhoto(t *testing.T) {
	g, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	p, v := testReportInput()
	p.PhotoURL = "http://127.0.0.1:1/photo.jpg"

	path, err := g.Generate(p, v)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestReportFileName(t *testing.T) {
	name := reportFileName("123 Main St, Unit #4")
	assert.True(t, strings.HasPrefix(name, "reVal_Report_123_Main_St_Unit_"))
	assert.NotContains(t, name, ",")
	assert.NotContains(t, name, "#")

	assert.True(t, strings.HasPrefix(reportFileName(""), "reVal_Report_Unknown_Address_"))
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "JPG", imageType("https://x.com/a.jpg"))
	assert.Equal(t, "JPG", imageType("https://x.com/a.JPEG?w=100"))
	assert.Equal(t, "PNG", imageType("https://x.com/a.png#frag"))
	assert.Equal(t, "", imageType("https://x.com/a.webp"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Location", displayName("location"))
	assert.Equal(t, "", displayName(""))
}
