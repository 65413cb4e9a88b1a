package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/setanarut/beadpattern"
	"github.com/setanarut/beadpattern/utils"
)

func main() {
	var (
		outPath     = flag.String("o", "", "output image (default: input with extension "+utils.OutputSuffix+")")
		density     = flag.Int("d", 1, "source pixels per bead along each side")
		beadsWide   = flag.Int("beads", 0, "pick the density so the pattern is about this many beads wide (overrides -d)")
		scale       = flag.Int("s", 0, "flat output scale; 0 renders every bead with the texture tile")
		distance    = flag.String("dist", "lab", "color distance: rgb or lab")
		filter      = flag.String("filter", "catmull_rom", "downscale filter: nearest, triangle, catmull_rom, gaussian, lanczos3")
		palettePath = flag.String("p", "palette.txt", "palette file with lines of \"name rrggbb\"")
		autoColors  = flag.Int("auto", 0, "extract this many colors from the image instead of reading -p")
		autoMethod  = flag.String("auto-method", "dominantcolor", "auto palette method: dominantcolor or kmeans")
		texturePath = flag.String("perla", "", "bead texture tile (default: built-in bead)")
		mirror      = flag.Bool("mirror", false, "flip the pattern left to right")
		swatchPath  = flag.String("swatch", "", "write a palette swatch PNG")
		chartPath   = flag.String("chart", "", "write the bead chart as JSON (.zst compresses it)")
		workers     = flag.Int("workers", 0, "worker goroutines (0: GOMAXPROCS)")
		verbose     = flag.Bool("v", false, "log stage timings")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)
	if *scale != 0 && *texturePath != "" {
		log.Fatal("-s and -perla are mutually exclusive")
	}

	start := time.Now()
	stage := func(name string) {
		if *verbose {
			log.Printf("%s: %v", name, time.Since(start).Round(time.Millisecond))
		}
		start = time.Now()
	}

	img, err := utils.ReadImage(input)
	if err != nil {
		log.Fatal(err)
	}

	opt, err := options(img.Bounds().Size(), *density, *beadsWide, *scale, *distance, *filter)
	if err != nil {
		log.Fatal(err)
	}
	opt.Mirror = *mirror
	opt.Workers = *workers
	if *texturePath != "" {
		if opt.Texture, err = utils.ReadTexture(*texturePath); err != nil {
			log.Fatal(err)
		}
	}

	var palette beadpattern.Palette
	if *autoColors > 0 {
		method, err := utils.ParsePaletteMethod(*autoMethod)
		if err != nil {
			log.Fatal(err)
		}
		palette, err = utils.AutoPalette(img, *autoColors, method)
		if err != nil {
			log.Fatal(err)
		}
	} else if palette, err = utils.ReadPalette(*palettePath); err != nil {
		log.Fatal(err)
	}
	stage("load")

	pattern, err := beadpattern.NewPatternBuilder(img, palette).Build(opt)
	if err != nil {
		log.Fatal(err)
	}
	stage("quantize")

	out, err := pattern.Render(opt)
	if err != nil {
		log.Fatal(err)
	}
	stage("render")

	for _, c := range pattern.Frequency.Sorted() {
		fmt.Printf("%s: %d\n", c.Name, c.Beads)
	}
	fmt.Printf(" Total: %d\n", pattern.Frequency.Total())

	if *outPath == "" {
		*outPath = utils.DefaultOutputPath(input)
	}
	if err := utils.SaveImage(out, *outPath); err != nil {
		log.Fatal(err)
	}
	if *chartPath != "" {
		if err := utils.SaveChart(pattern, *chartPath); err != nil {
			log.Fatal(err)
		}
	}
	if *swatchPath != "" {
		if err := utils.SavePalette(palette, 64, *swatchPath); err != nil {
			log.Fatal(err)
		}
	}
	stage("save")
}

func options(size image.Point, density, beadsWide, scale int, distance, filter string) (beadpattern.Options, error) {
	opt := beadpattern.OptionsFromSize(size, beadsWide)
	if beadsWide <= 0 {
		opt.Density = density
	}
	opt.Scale = scale

	var err error
	if opt.Metric, err = beadpattern.ParseMetric(distance); err != nil {
		return opt, err
	}
	if opt.Filter, err = beadpattern.ParseFilter(filter); err != nil {
		return opt, err
	}
	if _, err := beadpattern.GridSize(size, opt.Density); err != nil {
		return opt, err
	}
	return opt, opt.Validate()
}
