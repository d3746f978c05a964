package isoaudio

// Diagnostic register indices returned by DiagnosticRegisters. Levels are in
// samples, averages and feedback values in Q16.16.
const (
	RegPlaybackLevelMin = iota
	RegPlaybackLevelMax
	RegPlaybackLevelAvg
	RegFeedbackMin
	RegFeedbackMax
	RegFeedbackAvg
	RegCaptureLevelMin
	RegCaptureLevelMax
	RegCaptureLevelAvg
	RegCaptureState
	RegPlaybackState
	RegCaptureRate
	RegPlaybackRate
	RegCaptureOverruns
	RegPlaybackUnderruns
	RegFeedbackLast

	NumDiagnosticRegisters
)

// DiagnosticRegisters snapshots the read-only audio information registers.
func (d *Device) DiagnosticRegisters() [NumDiagnosticRegisters]uint32 {
	defer d.lock()()

	pb := d.playback.monitor.Stats()
	fb := d.playback.controller.Stats()
	cp := d.capture.monitor.Stats()

	var r [NumDiagnosticRegisters]uint32
	r[RegPlaybackLevelMin] = uint32(pb.LevelMin)
	r[RegPlaybackLevelMax] = uint32(pb.LevelMax)
	r[RegPlaybackLevelAvg] = pb.LevelAvgQ16
	r[RegFeedbackMin] = fb.ValueMin
	r[RegFeedbackMax] = fb.ValueMax
	r[RegFeedbackAvg] = fb.ValueAvg()
	r[RegCaptureLevelMin] = uint32(cp.LevelMin)
	r[RegCaptureLevelMax] = uint32(cp.LevelMax)
	r[RegCaptureLevelAvg] = cp.LevelAvgQ16
	r[RegCaptureState] = uint32(d.capture.State())
	r[RegPlaybackState] = uint32(d.playback.State())
	r[RegCaptureRate] = d.capture.rate
	r[RegPlaybackRate] = d.playback.rate
	r[RegCaptureOverruns] = d.capture.overruns
	r[RegPlaybackUnderruns] = d.playback.underruns
	r[RegFeedbackLast] = d.playback.lastFeedback
	return r
}
