package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	lanedetect "github.com/PHANTOM0122/Lane-detection"
	"github.com/PHANTOM0122/Lane-detection/internal/logger"
	"github.com/PHANTOM0122/Lane-detection/render"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/cpu"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
)

var (
	// FPS is the number of FPS to simulate
	FPS         = 30
	FPSinterval = time.Duration(float64(time.Second) / float64(FPS))
)

// ResultFrame is a struct to wrap the gocv byte buffer and error result
type ResultFrame struct {
	Buf *gocv.NativeByteBuffer
	Err error
}

// Demo defines the struct for running the lane streaming demo
type Demo struct {
	// vidBuffer buffers the video frames into memory
	vidBuffer []gocv.Mat
	// pool of pipelines to process frames in parallel
	pool *lanedetect.Pool
	// face is an optional TTF font for the status text
	face font.Face
	// showMask tints the masked edge pixels on the streamed frame
	showMask bool
	log      *zap.Logger
}

// NewDemo returns and instance of Demo, a streaming HTTP server showing
// video with lane markings and the centerline trace
func NewDemo(vidFile string, poolSize int, cfg lanedetect.Config,
	log *zap.Logger) (*Demo, error) {

	d := &Demo{
		log: log,
	}

	err := d.bufferVideo(vidFile)

	if err != nil {
		return nil, fmt.Errorf("error buffering video: %w", err)
	}

	if len(d.vidBuffer) == 0 {
		return nil, fmt.Errorf("video %s has no frames", vidFile)
	}

	// create new pool
	d.pool, err = lanedetect.NewPool(poolSize, cfg)

	if err != nil {
		return nil, fmt.Errorf("error creating pipeline pool: %w", err)
	}

	d.pool.SetLogger(log)

	log.Info("Buffered video",
		zap.String("file", vidFile),
		zap.Int("frames", len(d.vidBuffer)),
		zap.Int("width", d.vidBuffer[0].Cols()),
		zap.Int("height", d.vidBuffer[0].Rows()),
	)

	return d, nil
}

// Close frees the pool and buffered video
func (d *Demo) Close() {
	d.pool.Close()

	for _, m := range d.vidBuffer {
		m.Close()
	}
}

// bufferVideo reads in the video frames and saves them to a buffer
func (d *Demo) bufferVideo(vidFile string) error {

	// open handle to read frames of video file
	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return err
	}

	defer video.Close()

	d.vidBuffer = make([]gocv.Mat, 0)

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			img.Close()
			break
		}

		// Check if the frame is empty
		if img.Empty() {
			img.Close()
			continue
		}

		// push frame onto buffer
		d.vidBuffer = append(d.vidBuffer, img)
	}

	return nil
}

// Stream is the HTTP handler function used to stream video frames to browser
func (d *Demo) Stream(w http.ResponseWriter, r *http.Request) {

	log := d.log.With(zap.String("session", uuid.NewString()),
		zap.String("remote", r.RemoteAddr))

	log.Info("New client connection established")

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	// pointer to position in video buffer
	frameNum := -1

	// used for calculating FPS and host load
	frameCount := 0
	startTime := time.Now()
	fps := float64(0)
	load := float64(0)

	ticker := time.NewTicker(FPSinterval)
	defer ticker.Stop()

	// chan to receive processed frames
	recvFrame := make(chan ResultFrame, 30)

	// frames still being processed when the client leaves must be drained
	// so their buffers are freed
	inFlight := 0

	defer func() {
		for ; inFlight > 0; inFlight-- {
			buf := <-recvFrame
			if buf.Buf != nil {
				buf.Buf.Close()
			}
		}
	}()

loop:
	for {
		select {
		case <-r.Context().Done():
			log.Info("Client disconnected")
			break loop

		// simulate reading 30FPS web camera
		case <-ticker.C:

			// increment pointer to next image in the video buffer
			frameNum++
			if frameNum > len(d.vidBuffer)-1 {
				// last frame reached so loop back to start of video
				frameNum = 0
			}

			inFlight++
			go d.ProcessFrame(d.vidBuffer[frameNum], recvFrame, fps, load, frameNum, log)

		case buf := <-recvFrame:
			inFlight--

			if buf.Err != nil {
				log.Error("Error occurred during ProcessFrame", zap.Error(buf.Err))

			} else {
				// Write the image to the response writer
				w.Write([]byte("--frame\r\n"))
				w.Write([]byte("Content-Type: image/jpeg\r\n\r\n"))
				w.Write(buf.Buf.GetBytes())
				w.Write([]byte("\r\n"))

				// Flush the buffer
				flusher, ok := w.(http.Flusher)
				if ok {
					flusher.Flush()
				}
			}

			if buf.Buf != nil {
				buf.Buf.Close()
			}

			// calculate FPS
			frameCount++
			elapsed := time.Since(startTime).Seconds()

			if elapsed >= 1.0 {
				fps = float64(frameCount) / elapsed
				frameCount = 0
				startTime = time.Now()
				load = cpuLoad(log)
			}
		}
	}
}

// cpuLoad returns the host CPU utilisation percentage since the last call
func cpuLoad(log *zap.Logger) float64 {

	pct, err := cpu.Percent(0, false)

	if err != nil || len(pct) == 0 {
		log.Debug("Unable to read CPU load", zap.Error(err))
		return 0
	}

	return pct[0]
}

// ProcessFrame runs the lane pipeline on an image from the video, annotates
// a copy of it and returns the result encoded as a JPG file
func (d *Demo) ProcessFrame(img gocv.Mat, retChan chan<- ResultFrame,
	fps, load float64, frameNum int, log *zap.Logger) {

	start := time.Now()

	pl := d.pool.Get()

	if pl == nil {
		retChan <- ResultFrame{Err: fmt.Errorf("pipeline pool closed")}
		return
	}

	res, err := pl.Process(img)
	d.pool.Return(pl)

	if err != nil {
		retChan <- ResultFrame{Err: err}
		return
	}

	defer res.Close()

	// copy the source image and annotate the copy
	resImg := gocv.NewMat()
	defer resImg.Close()

	img.CopyTo(&resImg)
	d.AnnotateImg(&resImg, res, fps, load, frameNum, start, log)

	// Encode the image to JPEG format
	buf, err := gocv.IMEncode(".jpg", resImg)

	retChan <- ResultFrame{
		Buf: buf,
		Err: err,
	}
}

// AnnotateImg draws the lane overlays and processing statistics on the given
// image Mat
func (d *Demo) AnnotateImg(img *gocv.Mat, res *lanedetect.Result, fps, load float64,
	frameNum int, start time.Time, log *zap.Logger) {

	renderStart := time.Now()

	if d.showMask && res.Scale == 1 {
		if err := render.MaskOverlay(img, res.Masked, render.Cyan, 0.6); err != nil {
			log.Warn("Error drawing mask overlay", zap.Error(err))
		}
	}

	render.ROI(img, res.ROI, render.Green, 1)
	render.Segments(img, res.Segments, render.DefaultLineStyle())
	render.Trace(img, res.Trace, render.DefaultTrailStyle())

	// calculate processing lag
	lag := time.Since(start).Milliseconds() - int64(FPS)

	ms := func(dur time.Duration) float32 {
		return float32(dur) / float32(time.Millisecond)
	}

	lines := []string{
		fmt.Sprintf("Frame: %d, FPS: %.2f, Lag: %dms, CPU: %.1f%%, Segments: %d, Trace: %d",
			frameNum, fps, lag, load, len(res.Segments), len(res.Trace)),
		fmt.Sprintf("Filter: %.2fms, Edges: %.2fms, Mask: %.2fms, Hough: %.2fms, Tracking: %.2fms, Rendering: %.2fms, Total Time: %.2fms",
			ms(res.Timing.Filter()),
			ms(res.Timing.Edges()),
			ms(res.Timing.Mask()),
			ms(res.Timing.Segments()),
			ms(res.Timing.Trace()),
			ms(time.Since(renderStart)),
			ms(time.Since(start)),
		),
	}

	if d.face == nil {
		render.Status(img, lines, render.DefaultFont())
		return
	}

	f := render.DefaultFont()
	render.Status(img, []string{"", ""}, f)

	for i, text := range lines {
		err := render.TTFText(img, text, f.LeftPad, 16*(i+1), d.face, f.Color)

		if err != nil {
			log.Warn("Error drawing status text", zap.Error(err))
			return
		}
	}
}

func main() {

	// read in cli flags
	vidFile := flag.String("v", "../data/road.mp4", "Video file to run lane detection on")
	cfgFile := flag.String("c", "", "Optional YAML pipeline config file")
	httpAddr := flag.String("a", "localhost:8080", "HTTP Address to run server on, format address:port")
	poolSize := flag.Int("s", 3, "Size of pipeline pool")
	cores := flag.String("cores", "", "Comma delimited list of CPU cores to pin the process to, eg: 4,5,6,7")
	fontFile := flag.String("font", "", "Optional TTF font used for the status text")
	showMask := flag.Bool("mask", false, "Tint the masked edge pixels on the video")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Log()

	if *cores != "" {
		mask, err := lanedetect.ParseCores(*cores)

		if err != nil {
			log.Fatal("Invalid core list", zap.String("cores", *cores), zap.Error(err))
		}

		if err := lanedetect.SetCPUAffinity(mask); err != nil {
			log.Warn("Failed to set CPU Affinity", zap.Error(err))
		}
	}

	cfg := lanedetect.DefaultConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = lanedetect.LoadConfig(*cfgFile)

		if err != nil {
			log.Fatal("Error loading config", zap.Error(err))
		}
	}

	demo, err := NewDemo(*vidFile, *poolSize, cfg, log)

	if err != nil {
		log.Fatal("Error creating demo", zap.Error(err))
	}

	defer demo.Close()

	demo.showMask = *showMask

	if *fontFile != "" {
		demo.face, err = render.LoadFontFace(*fontFile, 14)

		if err != nil {
			log.Fatal("Error loading font", zap.Error(err))
		}
	}

	http.HandleFunc("/stream", demo.Stream)

	// start http server
	log.Info(fmt.Sprintf("Open browser and view video at http://%s/stream", *httpAddr))

	if err := http.ListenAndServe(*httpAddr, nil); err != nil {
		log.Error("HTTP server stopped", zap.Error(err))
	}
}
