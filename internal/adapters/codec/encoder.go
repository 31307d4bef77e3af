package codec

import (
	"maps"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// Field numbers. They are part of the artifact format and must never be reused.
const (
	fieldLabelResultLabel          protowire.Number = 1
	fieldLabelResultConfigurations protowire.Number = 2
	fieldLabelResultResults        protowire.Number = 3
	fieldLabelResultConfigOwner    protowire.Number = 4
	fieldLabelResultOriginalIDs    protowire.Number = 5

	fieldLabelWorkspace protowire.Number = 1
	fieldLabelPackage   protowire.Number = 2
	fieldLabelName      protowire.Number = 3

	fieldConfigID               protowire.Number = 1
	fieldConfigProjectPath      protowire.Number = 2
	fieldConfigGlobalProperties protowire.Number = 3
	fieldConfigToolsVersion     protowire.Number = 4
	fieldConfigTargetNames      protowire.Number = 5
	fieldConfigExplicitlyLoaded protowire.Number = 6

	fieldResultConfigID protowire.Number = 1
	fieldResultTargets  protowire.Number = 2
	fieldResultError    protowire.Number = 3

	fieldTargetCode     protowire.Number = 1
	fieldTargetItems    protowire.Number = 2
	fieldTargetMessages protowire.Number = 3

	fieldItemSpec     protowire.Number = 1
	fieldItemMetadata protowire.Number = 2

	fieldProjectFullPath   protowire.Number = 1
	fieldProjectProperties protowire.Number = 2
	fieldProjectItems      protowire.Number = 3

	fieldProjectItemType protowire.Number = 1
	fieldProjectItemItem protowire.Number = 2

	// Map entries share one layout.
	fieldEntryKey   protowire.Number = 1
	fieldEntryValue protowire.Number = 2
)

type encoder struct {
	buf       []byte
	toVirtual func(string) string
}

func (e *encoder) labelResult(r *domain.LabelResult) {
	e.message(fieldLabelResultLabel, func(e *encoder) { e.label(r.Label) })
	for _, cfg := range r.Configurations {
		e.message(fieldLabelResultConfigurations, func(e *encoder) { e.configuration(cfg) })
	}
	for _, res := range r.Results {
		e.message(fieldLabelResultResults, func(e *encoder) { e.result(res) })
	}
	for _, id := range slices.Sorted(maps.Keys(r.ConfigOwner)) {
		e.message(fieldLabelResultConfigOwner, func(e *encoder) {
			e.int(fieldEntryKey, id)
			e.string(fieldEntryValue, r.ConfigOwner[id])
		})
	}
	for _, id := range slices.Sorted(maps.Keys(r.OriginalIDs)) {
		e.message(fieldLabelResultOriginalIDs, func(e *encoder) {
			e.int(fieldEntryKey, id)
			e.int(fieldEntryValue, r.OriginalIDs[id])
		})
	}
}

func (e *encoder) label(l domain.Label) {
	e.string(fieldLabelWorkspace, l.Workspace)
	e.string(fieldLabelPackage, l.Package)
	e.string(fieldLabelName, l.Name)
}

func (e *encoder) configuration(c *domain.Configuration) {
	if c == nil {
		return
	}
	e.int(fieldConfigID, c.ID)
	e.string(fieldConfigProjectPath, c.ProjectPath)
	e.stringMap(fieldConfigGlobalProperties, c.GlobalProperties)
	e.string(fieldConfigToolsVersion, c.ToolsVersion)
	for _, name := range c.TargetNames {
		e.repeatedString(fieldConfigTargetNames, name)
	}
	e.bool(fieldConfigExplicitlyLoaded, c.ExplicitlyLoaded)
}

func (e *encoder) result(r *domain.Result) {
	if r == nil {
		return
	}
	e.int(fieldResultConfigID, r.ConfigurationID)
	for _, name := range r.TargetNames() {
		tr := r.Targets[name]
		e.message(fieldResultTargets, func(e *encoder) {
			e.string(fieldEntryKey, name)
			e.message(fieldEntryValue, func(e *encoder) { e.targetResult(tr) })
		})
	}
	e.string(fieldResultError, r.Error)
}

func (e *encoder) targetResult(tr *domain.TargetResult) {
	if tr == nil {
		return
	}
	e.uint(fieldTargetCode, uint64(tr.Code))
	for _, item := range tr.Items {
		e.message(fieldTargetItems, func(e *encoder) { e.item(item) })
	}
	for _, msg := range tr.Messages {
		e.repeatedString(fieldTargetMessages, msg)
	}
}

func (e *encoder) item(item *domain.Item) {
	if item == nil {
		return
	}
	e.string(fieldItemSpec, item.Spec)
	e.stringMap(fieldItemMetadata, item.Metadata)
}

func (e *encoder) project(p *domain.ProjectInstance) {
	e.string(fieldProjectFullPath, p.FullPath)
	e.stringMap(fieldProjectProperties, p.Properties)
	for _, pi := range p.Items {
		e.message(fieldProjectItems, func(e *encoder) {
			e.string(fieldProjectItemType, pi.Type)
			e.message(fieldProjectItemItem, func(e *encoder) { e.item(pi.Item) })
		})
	}
}

// message appends a length-delimited nested message filled by fill.
func (e *encoder) message(num protowire.Number, fill func(*encoder)) {
	sub := &encoder{toVirtual: e.toVirtual}
	fill(sub)
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub.buf)
}

// stringMap appends one entry message per key, in sorted key order.
func (e *encoder) stringMap(num protowire.Number, m map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		e.message(num, func(e *encoder) {
			e.string(fieldEntryKey, k)
			e.string(fieldEntryValue, m[k])
		})
	}
}

// string appends a non-empty string in virtual form.
func (e *encoder) string(num protowire.Number, s string) {
	if s == "" {
		return
	}
	e.repeatedString(num, s)
}

// repeatedString appends a string even when it is empty, so list positions survive.
func (e *encoder) repeatedString(num protowire.Number, s string) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, e.toVirtual(s))
}

func (e *encoder) int(num protowire.Number, v int) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeZigZag(int64(v)))
}

func (e *encoder) uint(num protowire.Number, v uint64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.uint(num, protowire.EncodeBool(v))
}
