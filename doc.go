// Package isoaudio implements the real-time audio path of a USB sound card
// radio adapter: sample rate conversion between a fixed analog rate and the
// USB rate the host selects, first-order noise shaping for a narrow DAC,
// FIFO level tracking, and the asynchronous feedback loop that keeps the
// host's playback stream locked to the device clock.
//
// Everything runs in fixed-point integer arithmetic without allocation, so
// the streaming callbacks are safe to call from interrupt handlers.
//
// # Wiring
//
// The transport supplies one [FIFO] per streaming endpoint and a
// [FeedbackSink]; the board supplies a [Hardware] with a master clock
// [CycleCounter], interrupt source gates and interrupt masking:
//
//	dev, err := isoaudio.New(isoaudio.DefaultConfig(), hw, inFIFO, outFIFO, fbEndpoint)
//	if err != nil {
//	    return err
//	}
//
// Interrupt handlers then call the stream callbacks:
//
//	func adcHandler()      { dev.Capture().OnADCBlock(dmaHalf[:]) }
//	func inPreload()       { dev.Capture().OnProducerTick() }
//	func outReceived()     { dev.Playback().OnProducerTick() }
//	func dacTimerHandler() { dev.Playback().OnConsumerTick(dacHalf[:]) }
//	func sofHandler()      { dev.Playback().OnFeedbackTick() }
//
// Control requests map onto [Device.SetInterface], [Device.SetSampleRate],
// [Device.SetMute] and [Device.SetVolume].
//
// # Stream lifecycle
//
// Each direction is Off until the host selects [AltStreaming], which moves it
// to Start. Capture starts the ADC on the first IN pre-load. Playback waits
// until the FIFO holds [Config.PrebufferFrames] frames of samples before
// starting the DAC timer. Selecting [AltZeroBandwidth] stops the stream.
//
// # Feedback
//
// Every frame the playback stream counts master clock cycles since the last
// frame, converts them to Q16.16 samples per frame, subtracts a small
// correction proportional to how far the average FIFO level sits from the
// pre-buffer target, and clamps the result to within one sample of nominal.
package isoaudio
