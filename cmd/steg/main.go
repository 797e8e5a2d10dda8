// steg hides a message in the least significant bits of a PNG or BMP image.
//
// Usage:
//
//	steg encode -i <cover.png> -m <message|file> [-o out.png] [-k password]
//	steg decode -i <stego.png> [-o message.txt] [-k password]
//	steg capacity -i <cover.png> [-m <message|file>]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	steg "github.com/yyyoichi/steg_lcg"
	"github.com/yyyoichi/steg_lcg/imgio"
)

const framework = "lsb"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(ctx, os.Args[2:], os.Stdout)
	case "decode":
		err = runDecode(ctx, os.Args[2:], os.Stdout)
	case "capacity":
		err = runCapacity(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

type common struct {
	input     string
	output    string
	password  string
	framework string
	verbose   int
}

func (c *common) register(fs *flag.FlagSet, output string) {
	fs.StringVar(&c.input, "i", "", "Input image path (.png or .bmp)")
	fs.StringVar(&c.output, "o", output, "Output path")
	fs.StringVar(&c.password, "k", "", "Password selecting a pseudorandom pixel order (optional)")
	fs.StringVar(&c.framework, "f", framework, "Steganography framework")
	fs.IntVar(&c.verbose, "v", 1, "Verbosity: 0 errors, 1 info, 2 debug")
}

func (c *common) validate() error {
	if c.input == "" {
		return errors.New("-i is required")
	}
	if c.framework != framework {
		return fmt.Errorf("framework %q is not available", c.framework)
	}
	return nil
}

func (c *common) steg() (*steg.Steg, error) {
	return steg.New(
		steg.WithPassword(c.password),
		steg.WithLogger(newLogger(os.Stderr, c.verbose)),
	)
}

func runEncode(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var (
		c       common
		message string
		nfc     bool
	)
	c.register(fs, "out.png")
	fs.StringVar(&message, "m", "", "Message to hide, or path to a file containing it")
	fs.BoolVar(&nfc, "nfc", false, "Normalize a literal message to Unicode NFC before hiding it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	if message == "" {
		return errors.New("-m is required")
	}

	msg, err := resolveMessage(message, nfc)
	if err != nil {
		return err
	}
	cover, err := imgio.Load(c.input)
	if err != nil {
		return err
	}
	s, err := c.steg()
	if err != nil {
		return err
	}
	if err := s.Embed(ctx, steg.WrapRGB(cover), msg); err != nil {
		return err
	}
	if err := imgio.Save(c.output, cover); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "message embedded: %s\n", c.output)
	return nil
}

func runDecode(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var c common
	c.register(fs, "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	img, err := imgio.Load(c.input)
	if err != nil {
		return err
	}
	s, err := c.steg()
	if err != nil {
		return err
	}
	msg, ok, err := s.Extract(ctx, steg.WrapRGB(img))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(stdout, "no hidden message found")
		return nil
	}
	if c.output != "" {
		return os.WriteFile(c.output, msg, 0o644)
	}
	fmt.Fprintf(stdout, "%s\n", msg)
	return nil
}

func runCapacity(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("capacity", flag.ContinueOnError)
	var (
		input   string
		message string
	)
	fs.StringVar(&input, "i", "", "Input image path (.png or .bmp)")
	fs.StringVar(&message, "m", "", "Message, or path to a file containing it, to check against the capacity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" {
		return errors.New("-i is required")
	}

	img, err := imgio.Load(input)
	if err != nil {
		return err
	}
	capacity := steg.Capacity(steg.WrapRGB(img))
	fmt.Fprintf(stdout, "capacity: %d bits (%d message bytes)\n", capacity, max(0, (capacity-steg.RequiredBits(nil))/8))
	if message == "" {
		return nil
	}
	msg, err := resolveMessage(message, false)
	if err != nil {
		return err
	}
	required := steg.RequiredBits(msg)
	fmt.Fprintf(stdout, "required: %d bits, fits: %t\n", required, required <= capacity)
	return nil
}

func newLogger(w io.Writer, verbose int) *slog.Logger {
	level := slog.LevelError
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printUsage() {
	fmt.Fprint(os.Stderr, `steg: hide a message in the least significant bits of an image

Usage:
  steg encode   -i <cover.png> -m <message|file> [-o out.png] [-k password] [-nfc] [-v 1]
  steg decode   -i <stego.png> [-o message.txt] [-k password] [-v 1]
  steg capacity -i <cover.png> [-m <message|file>]

Only lossless .png and .bmp images are supported. The password reorders
pixels; it does not encrypt the message.
`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
