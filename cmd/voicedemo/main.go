// Command voicedemo drives a voice engine through a preset, some live edits
// and a stop, writing the rendered audio as raw 16-bit little-endian PCM.
//
// Usage:
//
//	voicedemo [flags]
//
// Examples:
//
//	voicedemo -o voice.raw
//	voicedemo -preset vowel-i -freq 196 -rate 48000 -o voice.raw
//	voicedemo -presets extra.yaml -preset belt -o voice.raw
//	voicedemo -list
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/cwbudde/algo-voice/synth/core"
	"github.com/cwbudde/algo-voice/synth/preset"
	"github.com/cwbudde/algo-voice/synth/source"
	"github.com/cwbudde/algo-voice/synth/voice"
)

func main() {
	var (
		output      = flag.String("o", "voicedemo.raw", "output file (raw s16le PCM)")
		presetID    = flag.String("preset", "vowel-a", "preset id to load")
		presetsFile = flag.String("presets", "", "optional YAML preset file to load additionally")
		freq        = flag.Float64("freq", 0, "override fundamental frequency in Hz (0 keeps the preset value)")
		rate        = flag.Float64("rate", 44100, "sample rate in Hz")
		seconds     = flag.Float64("dur", 2.0, "render duration in seconds")
		list        = flag.Bool("list", false, "list available presets and sources, then exit")
	)
	flag.Parse()

	sources := source.DefaultRegistry()
	presets := preset.DefaultRegistry()

	if *presetsFile != "" {
		if err := preset.LoadInto(presets, *presetsFile); err != nil {
			log.Fatal(err)
		}
	}

	if *list {
		printInventory(sources, presets)
		return
	}

	engine, err := voice.New(sources, presets,
		[]core.EngineOption{core.WithSampleRate(*rate)})
	if err != nil {
		log.Fatal(err)
	}

	if err := engine.LoadPreset(*presetID, nil); err != nil {
		log.Fatal(err)
	}

	if *freq > 0 {
		if err := engine.SetSource(voice.SourceUpdate{Frequency: *freq}); err != nil {
			log.Fatal(err)
		}
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := renderDemo(engine, out, *rate, *seconds); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %.1fs of audio to %s\n", *seconds, *output)
}

// renderDemo plays the loaded preset, slides the pitch up a fifth halfway
// through, briefly bypasses the filters and fades out at the end.
func renderDemo(engine *voice.Engine, out *os.File, sampleRate, seconds float64) error {
	cfg := engine.Config()
	block := make([]float64, cfg.BlockSize)
	pcm := make([]int16, cfg.BlockSize)

	total := int(sampleRate * seconds)
	glideAt := total / 2
	bypassAt := total * 3 / 4
	bypassOff := total * 7 / 8
	stopAt := total - int(0.15*sampleRate)

	engine.Start()

	for rendered := 0; rendered < total; rendered += len(block) {
		switch {
		case rendered <= glideAt && glideAt < rendered+len(block):
			f := engine.State().Frequency * 1.5
			if err := engine.SetSource(voice.SourceUpdate{Frequency: f}); err != nil {
				return err
			}
		case rendered <= bypassAt && bypassAt < rendered+len(block):
			engine.ToggleFilters(false)
		case rendered <= bypassOff && bypassOff < rendered+len(block):
			engine.ToggleFilters(true)
		case rendered <= stopAt && stopAt < rendered+len(block):
			engine.Stop()
		}

		engine.Render(block)

		for i, v := range block {
			pcm[i] = clip(v)
		}

		if err := binary.Write(out, binary.LittleEndian, pcm); err != nil {
			return fmt.Errorf("write pcm: %w", err)
		}
	}

	return nil
}

func clip(v float64) int16 {
	const peak = 32767

	switch {
	case v >= 1:
		return peak
	case v <= -1:
		return -peak
	default:
		return int16(v * peak)
	}
}

func printInventory(sources *source.Registry, presets *preset.Registry) {
	names := sources.Names()
	sort.Strings(names)
	fmt.Println("sources:")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}

	ids := presets.IDs()
	sort.Strings(ids)
	fmt.Println("presets:")
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
}
