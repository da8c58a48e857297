//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package imagepp

import (
	"sync"
)

// Progressor shows the completion of a whole image transfer
type Progressor interface {
	Show(percent float32)
	Stop()
}

type nilProgress struct{}

func (np *nilProgress) Show(float32) {}
func (np *nilProgress) Stop()        {}

var (
	progressMutex   sync.Mutex
	defaultProgress = Progressor(&nilProgress{})
)

// SetProgress sets the progressor of image transfers. nil hides progress.
func SetProgress(prog Progressor) {
	if prog == nil {
		prog = &nilProgress{}
	}

	progressMutex.Lock()
	defaultProgress = prog
	progressMutex.Unlock()
}

// Progress counts completed strips
type Progress struct {
	Progressor
	Completed chan struct{}
	Done      chan struct{}
}

// NewProgress starts showing progress over total strips
func NewProgress(total int) (prog *Progress) {
	progressMutex.Lock()
	progressor := defaultProgress
	progressMutex.Unlock()

	prog = &Progress{
		Progressor: progressor,
		Completed:  make(chan struct{}, total),
		Done:       make(chan struct{}),
	}

	go func(prog *Progress) {
		for completion := 0; completion < total; completion++ {
			prog.Show(float32(completion) * 100.0 / float32(total))
			<-prog.Completed
		}
		prog.Show(100.0)
		prog.Stop()
		close(prog.Done)
	}(prog)

	return
}

// Indicate marks one strip complete
func (prog *Progress) Indicate() {
	prog.Completed <- struct{}{}
}

// Close ends the progress, also when strips were left unindicated
func (prog *Progress) Close() {
	close(prog.Completed)
	<-prog.Done
}
