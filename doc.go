/*
Package faceeval is a face image quality assessment library. It decides whether a detected
face is usable for enrollment or matching by running an ordered battery of checks over the
source image: bounding box sanity, head pose, lighting and partial occlusion.
The first failing check determines the verdict, otherwise the face passes.

The package expects the face to be already located: a bounding box, the five facial
landmarks and an aligned crop of the face. The detect subpackage provides a detector
built on top of pigo which can be used to obtain them.

The package also provides a command line interface. To check the supported flags type:

	$ faceeval --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/faceeval/faceeval"
	)

	func main() {
		p, err := faceeval.NewPipeline(faceeval.DefaultConfig())
		if err != nil {
			// handle the invalid configuration
		}

		verdict, err := p.Run(img, aligned, landmarks, box)
		if err != nil {
			fmt.Printf("Error evaluating the face: %s", err.Error())
		}
		fmt.Println(verdict)
	}
*/
package faceeval
