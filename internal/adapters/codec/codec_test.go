package codec_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"go.trai.ch/cachebridge/internal/adapters/codec"
	"go.trai.ch/cachebridge/internal/adapters/pathmap"
	"go.trai.ch/cachebridge/internal/core/domain"
)

func newCodec(t *testing.T, outputBase, execRoot string) *codec.Codec {
	t.Helper()
	v, err := pathmap.New(outputBase, execRoot)
	require.NoError(t, err)
	return codec.New(v)
}

func sampleLabelResult(root string) *domain.LabelResult {
	compile := &domain.TargetResult{
		Code: domain.ResultSuccess,
		Items: []*domain.Item{
			{
				Spec: root + "/bin/app.dll",
				Metadata: map[string]string{
					"FullPath":      root + "/bin/app.dll",
					"ReferencePath": root + "/lib/a.dll;" + root + "/lib/b.dll",
					"Culture":       "",
				},
			},
		},
		Messages: []string{"compiled", ""},
	}
	failed := &domain.TargetResult{Code: domain.ResultFailure}

	res := domain.NewResult(3)
	res.AddTarget("Build", compile)
	res.AddTarget("Pack", failed)
	res.Error = "Pack failed"

	r := domain.NewLabelResult(domain.NewLabel("ws", "src/app", "app"))
	r.Configurations = []*domain.Configuration{
		{
			ID:               3,
			ProjectPath:      root + "/src/app/app.csproj",
			GlobalProperties: map[string]string{"Configuration": "Debug", "OutDir": root + "/bin/"},
			ToolsVersion:     "Current",
			TargetNames:      []string{"Build", "Pack"},
			ExplicitlyLoaded: true,
		},
	}
	r.Results = []*domain.Result{res}
	r.ConfigOwner[3] = "@ws//src/lib:lib"
	r.OriginalIDs[3] = 1
	r.OriginalIDs[-2] = 7
	return r
}

func TestCodec_LabelResultRoundTrip(t *testing.T) {
	writer := newCodec(t, "/sandbox-1", "/sandbox-1/execroot/ws")
	data := writer.EncodeLabelResult(sampleLabelResult("/sandbox-1/execroot/ws"))

	assert.NotContains(t, string(data), "/sandbox-1")
	assert.Contains(t, string(data), "$exec_root/src/app/app.csproj")

	t.Run("same sandbox", func(t *testing.T) {
		got, err := writer.DecodeLabelResult(data)
		require.NoError(t, err)
		if diff := cmp.Diff(sampleLabelResult("/sandbox-1/execroot/ws"), got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("relocated sandbox", func(t *testing.T) {
		reader := newCodec(t, "/tmp/sandbox-2", "/tmp/sandbox-2/execroot/ws")
		got, err := reader.DecodeLabelResult(data)
		require.NoError(t, err)
		if diff := cmp.Diff(sampleLabelResult("/tmp/sandbox-2/execroot/ws"), got); diff != "" {
			t.Errorf("relocated round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCodec_EncodingIsDeterministic(t *testing.T) {
	c := newCodec(t, "/o", "/o/e")
	first := c.EncodeLabelResult(sampleLabelResult("/o/e"))
	for range 10 {
		assert.True(t, bytes.Equal(first, c.EncodeLabelResult(sampleLabelResult("/o/e"))))
	}
}

func TestCodec_ProjectRoundTrip(t *testing.T) {
	c := newCodec(t, `C:\o`, `C:\o\e`)
	project := &domain.ProjectInstance{
		FullPath:   `C:\o\e\src\app.csproj`,
		Properties: map[string]string{"MSBuildProjectDirectory": `C:\o\e\src`},
		Items: []domain.ProjectItem{
			{Type: "Compile", Item: &domain.Item{Spec: `C:\o\e\src\Program.cs`}},
			{Type: "None", Item: &domain.Item{Spec: "README.md", Metadata: map[string]string{"Pack": "true"}}},
		},
	}

	data := c.EncodeProject(project)
	assert.Contains(t, string(data), `$exec_root\src\Program.cs`)

	got, err := c.DecodeProject(data)
	require.NoError(t, err)
	if diff := cmp.Diff(project, got); diff != "" {
		t.Errorf("project round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_DecodeErrors(t *testing.T) {
	c := newCodec(t, "/o", "/o/e")
	valid := c.EncodeLabelResult(sampleLabelResult("/o/e"))

	flipped := bytes.Clone(valid)
	flipped[len(flipped)/2] ^= 0xff

	futureVersion := append([]byte("CBLR"), protowire.AppendVarint(nil, codec.Version+1)...)
	futureVersion = protowire.AppendVarint(futureVersion, uint64(codec.KindLabelResult))

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: domain.ErrIncompatibleArtifact},
		{name: "wrong magic", data: []byte("PK\x03\x04 not an artifact"), want: domain.ErrIncompatibleArtifact},
		{name: "newer version", data: futureVersion, want: domain.ErrIncompatibleArtifact},
		{name: "project artifact", data: c.EncodeProject(&domain.ProjectInstance{}), want: domain.ErrIncompatibleArtifact},
		{name: "truncated header", data: valid[:4], want: domain.ErrCorruptArtifact},
		{name: "truncated body", data: valid[:len(valid)-3], want: domain.ErrCorruptArtifact},
		{name: "checksum mismatch", data: flipped, want: domain.ErrCorruptArtifact},
		{
			name: "malformed body with valid checksum",
			data: codec.Seal(codec.KindLabelResult, []byte{0x12, 0x7f, 0x01}),
			want: domain.ErrCorruptArtifact,
		},
		{
			name: "wrong wire type",
			data: codec.Seal(codec.KindLabelResult, protowire.AppendVarint(
				protowire.AppendTag(nil, 1, protowire.VarintType), 5)),
			want: domain.ErrCorruptArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.DecodeLabelResult(tt.data)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestCodec_SkipsUnknownFields(t *testing.T) {
	c := newCodec(t, "/o", "/o/e")

	var body []byte
	body = protowire.AppendTag(body, 99, protowire.BytesType)
	body = protowire.AppendString(body, "from a newer writer")
	body = protowire.AppendTag(body, 98, protowire.Fixed64Type)
	body = protowire.AppendFixed64(body, 42)
	var label []byte
	label = protowire.AppendTag(label, 3, protowire.BytesType)
	label = protowire.AppendString(label, "lib")
	body = protowire.AppendTag(body, 1, protowire.BytesType)
	body = protowire.AppendBytes(body, label)

	got, err := c.DecodeLabelResult(codec.Seal(codec.KindLabelResult, body))
	require.NoError(t, err)
	assert.Equal(t, "lib", got.Label.Name)
	assert.Empty(t, got.Configurations)
}

func TestInterner_DevirtualizesOnce(t *testing.T) {
	calls := 0
	in := codec.NewInterner(func(s string) string {
		calls++
		return "/real" + s[len("$exec_root"):]
	})

	first := in.Intern([]byte("$exec_root/a"))
	second := in.Intern([]byte("$exec_root/a"))

	assert.Equal(t, "/real/a", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, in.Len())
	assert.Empty(t, in.Intern(nil))
	assert.Equal(t, 1, calls)
}

func TestCodec_SharesStringsAcrossArtifacts(t *testing.T) {
	c := newCodec(t, "/o", "/o/e")
	data := c.EncodeLabelResult(sampleLabelResult("/o/e"))

	_, err := c.DecodeLabelResult(data)
	require.NoError(t, err)
	seen := c.Interner().Len()

	_, err = c.DecodeLabelResult(data)
	require.NoError(t, err)
	assert.Equal(t, seen, c.Interner().Len())
}
