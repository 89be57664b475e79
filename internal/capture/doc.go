// Package capture records microphone audio for one push-to-talk gesture at a
// time. A Session buffers the blocks an audio Device delivers on its own
// thread and, on Stop, encodes them as a 32-bit float WAV payload, or returns
// an empty payload when the gesture was too short to be speech.
package capture
