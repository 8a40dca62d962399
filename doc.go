/*
lanedetect locates road lane markings in video frames and reduces them to
line segments and a bottom to top trace of lane center points.

Each frame passes through color segmentation (white and yellow paint),
edge detection, a trapezoid region of interest mask, and then two
independent consumers of the masked edges: a probabilistic Hough line
segment detector and a sliding window centerline tracker.

The stages are available on their own in the preprocess, postprocess and
tracker packages.  Pipeline chains them for a single goroutine and Pool
hands out pipelines to process frames in parallel.

See example code and usage in the examples subdirectory.
*/
package lanedetect
