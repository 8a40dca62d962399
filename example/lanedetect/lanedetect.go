package main

import (
	"flag"
	"fmt"
	"os"

	lanedetect "github.com/PHANTOM0122/Lane-detection"
	"github.com/PHANTOM0122/Lane-detection/internal/logger"
	"github.com/PHANTOM0122/Lane-detection/render"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
)

// escKey is the key code returned by WaitKey that stops playback
const escKey = 27

func main() {

	// read in cli flags
	vidFile := flag.String("v", "../data/road.mp4", "Video file to detect lane markings in")
	cfgFile := flag.String("c", "", "Optional YAML pipeline config file")
	outFile := flag.String("o", "", "Save the last annotated frame to this image file")
	fontFile := flag.String("font", "", "Optional TTF font used for the status text")
	headless := flag.Bool("headless", false, "Do not open display windows")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Log()

	cfg := lanedetect.DefaultConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = lanedetect.LoadConfig(*cfgFile)

		if err != nil {
			log.Fatal("Error loading config", zap.Error(err))
		}
	}

	pipeline, err := lanedetect.NewPipeline(cfg)

	if err != nil {
		log.Fatal("Error creating pipeline", zap.Error(err))
	}

	defer pipeline.Close()
	pipeline.SetLogger(log)

	var face font.Face

	if *fontFile != "" {
		face, err = render.LoadFontFace(*fontFile, 18)

		if err != nil {
			log.Fatal("Error loading font", zap.Error(err))
		}
	}

	video, err := gocv.VideoCaptureFile(*vidFile)

	if err != nil {
		log.Fatal("Error opening video", zap.String("file", *vidFile), zap.Error(err))
	}

	defer video.Close()

	var filterWin, roiWin, laneWin *gocv.Window

	if !*headless {
		filterWin = gocv.NewWindow("filter")
		defer filterWin.Close()
		roiWin = gocv.NewWindow("ROI")
		defer roiWin.Close()
		laneWin = gocv.NewWindow("img_lane")
		defer laneWin.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	resImg := gocv.NewMat()
	defer resImg.Close()

	frames := 0

	for {
		// read the next frame from the video
		if ok := video.Read(&frame); !ok {
			// reached last video frame
			break
		}

		if frame.Empty() {
			continue
		}

		res, err := pipeline.Process(frame)

		if err != nil {
			log.Error("Error processing frame", zap.Error(err))
			continue
		}

		frames++

		frame.CopyTo(&resImg)
		annotate(&resImg, res, face)

		if !*headless {
			filterWin.IMShow(res.Filtered)
			roiWin.IMShow(res.Masked)
			laneWin.IMShow(resImg)
		}

		res.Close()

		if !*headless && laneWin.WaitKey(1) == escKey {
			log.Info("Playback stopped")
			break
		}
	}

	log.Info("Finished video", zap.String("file", *vidFile), zap.Int("frames", frames))

	if *outFile != "" && !resImg.Empty() {
		if ok := gocv.IMWrite(*outFile, resImg); !ok {
			log.Error("Failed to save the image", zap.String("file", *outFile))
		} else {
			log.Info("Saved annotated frame", zap.String("file", *outFile))
		}
	}
}

// annotate draws the region of interest, line segments, centerline trace and
// a status line on the frame
func annotate(img *gocv.Mat, res *lanedetect.Result, face font.Face) {

	render.ROI(img, res.ROI, render.Green, 1)
	render.Segments(img, res.Segments, render.DefaultLineStyle())
	render.Trace(img, res.Trace, render.DefaultTrailStyle())

	text := fmt.Sprintf("Frame: %d, Segments: %d, Total Time: %.2fms",
		res.FrameID, len(res.Segments),
		float64(res.Timing.Total().Microseconds())/1000)

	if face == nil {
		render.Status(img, []string{text}, render.DefaultFont())
		return
	}

	if err := render.TTFText(img, text, 4, 20, face, render.Pink); err != nil {
		logger.Log().Warn("Error drawing status text", zap.Error(err))
	}
}
