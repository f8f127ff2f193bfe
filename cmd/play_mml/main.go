package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mmlwave "github.com/cbegin/mmlwave-go"
)

var (
	sampleRate int
	tempo      int
	timbreSpec string
	outFile    string
	playback   bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   `play_mml "t120 o5 l4 v12 cdefgab>c"`,
		Short: "Render and play Music Macro Language scores",
		Long: `Render and play Music Macro Language scores.

Channels are separated by '|'. Each channel supports tN (tempo), oN (octave),
lN (default length), vN (volume 0-15), > < (octave shift), notes a-g with
+/#/- accidentals, nN numeric notes, r rests, '.' dotted lengths and '&' ties.

A per-channel timbre is a Fourier coefficient pair list
"re1,re2,...;im1,im2,...", channel entries separated by '|'.`,
		Example: `  play_mml "t140 o5 l8 c8e8g8c6|o4 g4b4d5"
  play_mml --timbre "1,0.5;0,0|1;0" "t120 o5 l4 cdefg"`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().IntVarP(&sampleRate, "samplerate", "r", mmlwave.DefaultSampleRate, "output sample rate")
	root.Flags().IntVarP(&tempo, "tempo", "t", 0, "override tempo (BPM) for every channel")
	root.Flags().StringVarP(&timbreSpec, "timbre", "T", "", "per-channel timbre specification")
	root.Flags().StringVarP(&outFile, "outfile", "o", "", "save the rendered WAV to this file")
	root.Flags().BoolVar(&playback, "play", true, "play the rendering when done")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.CheckErr(root.Execute())
}

func run(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	opts := []mmlwave.RenderOption{
		mmlwave.WithSampleRate(sampleRate),
		mmlwave.WithLogger(logger),
	}
	if tempo != 0 {
		opts = append(opts, mmlwave.WithTempo(float64(tempo)))
	}
	if timbreSpec != "" {
		opts = append(opts, mmlwave.WithTimbre(timbreSpec))
	}

	rendering, err := mmlwave.Render(args[0], opts...)
	if errors.Is(err, mmlwave.ErrNoAudio) {
		fmt.Println("No audio generated (empty MML).")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("rendered",
		zap.Int("samples", len(rendering.Samples)),
		zap.Duration("duration", rendering.Duration()),
	)

	if outFile != "" {
		if err := mmlwave.WriteWAVFile(outFile, rendering); err != nil {
			return err
		}
		fmt.Printf("WAV saved to %s\n", outFile)
	}
	if playback {
		player, err := mmlwave.NewPlayer(sampleRate)
		if err != nil {
			return err
		}
		fmt.Println("Playing...")
		if err := player.Play(rendering); err != nil {
			return err
		}
		player.Wait()
	}
	return nil
}
