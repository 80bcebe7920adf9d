// Command seqd is the sequencer daemon: it loads a project file, wires its
// tracks to generators, and either plays them live through an audio sink or
// exports a fixed span to a Standard MIDI File. Argument handling mirrors
// the teacher's flat switch-on-subcommand main.go rather than reaching for
// a flag-parsing library, since the teacher never does either.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"seqcore/collab/audio"
	"seqcore/collab/display"
	"seqcore/collab/export"
	"seqcore/collab/midiio"
	"seqcore/scheduler"
)

var soundFontPath string
var synthBackend string

func main() {
	args := parseArgs(os.Args[1:])
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "play":
		if len(args) < 2 {
			fmt.Println("Error: play requires a project file")
			os.Exit(1)
		}
		runPlay(args[1])
	case "export":
		if len(args) < 2 {
			fmt.Println("Error: export requires a project file")
			os.Exit(1)
		}
		out := ""
		if len(args) >= 3 {
			out = args[2]
		}
		runExport(args[1], out)
	case "ports":
		listPorts()
	case "soundfonts":
		listSoundFonts()
	default:
		printUsage()
		os.Exit(1)
	}
}

func parseArgs(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--soundfont" || arg == "-sf":
			if i+1 < len(args) {
				soundFontPath = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--soundfont="):
			soundFontPath = strings.TrimPrefix(arg, "--soundfont=")
		case arg == "--synth":
			if i+1 < len(args) {
				synthBackend = args[i+1]
				i++
			}
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			remaining = append(remaining, arg)
		}
	}
	if soundFontPath == "" {
		soundFontPath = os.Getenv("SOUNDFONT")
	}
	return remaining
}

func runPlay(projectFile string) {
	session, err := LoadSession(projectFile)
	if err != nil {
		fmt.Printf("Error loading project: %v\n", err)
		os.Exit(1)
	}

	sink, err := openSink()
	if err != nil {
		fmt.Printf("Error starting audio sink: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	runtime := newPlayRuntime(session, sink)
	runtime.Start()
	defer runtime.Stop()

	model := display.NewModel(runtime)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("display error: %v\n", err)
	}
}

func runExport(projectFile, outputPath string) {
	session, err := LoadSession(projectFile)
	if err != nil {
		fmt.Printf("Error loading project: %v\n", err)
		os.Exit(1)
	}

	session.StartAllClips()

	const exportBars = 8
	ticksPerBar := session.Timing.TicksPerBar()
	totalTicks := ticksPerBar * exportBars

	perTrack := make(map[int][]scheduler.ScheduledEvent)
	for tick := uint64(0); tick < totalTicks; tick += ticksPerBar {
		window := session.GenerateWindow(tick, ticksPerBar)
		for idx, events := range window {
			perTrack[idx] = append(perTrack[idx], events...)
		}
	}

	var tracks []export.TrackEvents
	for i, u := range session.Tracks {
		tracks = append(tracks, export.TrackEvents{Name: u.name, Events: perTrack[i]})
	}

	if outputPath == "" {
		base := filepath.Base(projectFile)
		ext := filepath.Ext(base)
		outputPath = strings.TrimSuffix(base, ext) + ".mid"
	}

	f, err := os.Create(outputPath)
	if err != nil {
		fmt.Printf("Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := export.WriteSMF(f, session.Project.Tempo, uint16(session.Timing.PPQN), tracks); err != nil {
		fmt.Printf("Error writing MIDI: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bars to %s\n", exportBars, outputPath)
}

func openSink() (audio.Sink, error) {
	if synthBackend == "melty" {
		sf, err := audio.FindSoundFont(soundFontPath)
		if err != nil {
			return nil, err
		}
		return audio.NewMeltySynthSink(sf)
	}

	sf, err := audio.FindSoundFont(soundFontPath)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using SoundFont: %s\n", sf)
	return audio.NewFluidSynthSink(sf)
}

func listPorts() {
	fmt.Println("MIDI outputs:")
	for _, name := range midiio.ListOutputs() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("MIDI inputs:")
	for _, name := range midiio.ListInputs() {
		fmt.Printf("  %s\n", name)
	}
}

func listSoundFonts() {
	found := audio.ListSoundFonts()
	if len(found) == 0 {
		fmt.Println("No SoundFonts found. Place .sf2 files in ./soundfonts/ or pass --soundfont.")
		return
	}
	fmt.Println("Available SoundFonts:")
	for _, sf := range found {
		fmt.Printf("  %s\n", sf)
	}
}

func printUsage() {
	fmt.Println("seqd - algorithmic MIDI sequencer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seqd play <project.yaml>            Play a project live")
	fmt.Println("  seqd export <project.yaml> [out]    Export a fixed span to a MIDI file")
	fmt.Println("  seqd ports                          List available MIDI ports")
	fmt.Println("  seqd soundfonts                     List available SoundFonts")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --soundfont, -sf <path>   Use a specific SoundFont (.sf2) file")
	fmt.Println("  --synth <fluidsynth|melty> Audio backend (default: fluidsynth)")
	fmt.Println("  --help, -h                Show this help")
}
