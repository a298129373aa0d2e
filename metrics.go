package annotext

import "log/slog"

// FontMetrics holds the host font's vertical metrics at the point an
// attachment is embedded. Descent is stored positive, below the
// baseline.
type FontMetrics struct {
	Ascent  float64
	Descent float64
}

// AttachmentMetrics computes the ascent, descent and width an inline
// object must report to the typesetting backend so it shapes correctly
// alongside glyphs.
//
// The object always occupies its full declared height somewhere in the
// [ascent, descent] band regardless of alignment, and baselineOffset
// shifts that band up (positive) or down (negative) without
// truncation:
//
//   - AlignTop hangs the box from its top: the whole height sits above
//     the baseline, plus the offset shift.
//   - AlignCenter centers the box on the font's band, never reporting
//     less than the font's own ascent or descent.
//   - AlignBottom rests the box on the baseline: the whole height sits
//     below, plus the offset shift.
func AttachmentMetrics(size Size, baselineOffset float64, align VerticalAlignment, fontAscent, fontDescent float64) (ascent, descent, width float64) {
	width = size.Width

	switch align {
	case AlignTop:
		ascent = size.Height + baselineOffset
		descent = max(0, -baselineOffset)
	case AlignCenter:
		usedAscent := max(fontAscent, size.Height/2)
		usedDescent := max(size.Height-usedAscent, fontDescent)
		ascent = usedAscent + baselineOffset
		descent = usedDescent + max(0, -baselineOffset)
	case AlignBottom:
		ascent = max(0, baselineOffset)
		descent = size.Height + max(0, -baselineOffset)
	}
	return ascent, descent, width
}

// RunSizer is the sizing delegate installed on a run that carries an
// attachment. The typesetting backend calls Metrics once per shaping
// pass to obtain the run's ascent, descent and width, and calls
// Release exactly once when it discards the run. The run owns the
// sizer; no other component may retain it past Release.
type RunSizer struct {
	attachment *Attachment
	font       FontMetrics
	released   bool
	log        *slog.Logger
}

// Attachment returns the attachment this sizer sizes.
func (s *RunSizer) Attachment() *Attachment {
	return s.attachment
}

// Metrics reports the ascent, descent and width for the attachment's
// run. The margins-grown box size is used, so margins contribute to
// the reported footprint.
func (s *RunSizer) Metrics() (ascent, descent, width float64) {
	if s.released {
		s.log.Warn("annotext: sizer used after release")
		return 0, 0, 0
	}
	return AttachmentMetrics(s.attachment.BoxSize(), s.attachment.BaselineOffset,
		s.attachment.Alignment, s.font.Ascent, s.font.Descent)
}

// Release marks the sizer dead. It is idempotent; the backend calls it
// when the owning run is discarded.
func (s *RunSizer) Release() {
	s.released = true
}

// MetricProvider hands out sizing delegates for attachment runs.
type MetricProvider struct {
	log *slog.Logger
}

// NewMetricProvider creates a provider. A nil logger falls back to the
// package logger.
func NewMetricProvider(log *slog.Logger) *MetricProvider {
	return &MetricProvider{log: pickLogger(log)}
}

// Sizer creates the sizing delegate for one attachment run. The
// returned sizer's lifetime is owned by the run structure that
// requested it.
func (p *MetricProvider) Sizer(a *Attachment, font FontMetrics) *RunSizer {
	return &RunSizer{attachment: a, font: font, log: p.log}
}
