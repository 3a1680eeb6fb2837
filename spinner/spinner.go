package spinner

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/KJHJason/GDrive-Downloader-CLI/utils"
	"github.com/fatih/color"
)

var colourMap = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

func GetSpinner(spinnerType string) SpinnerInfo {
	if spinner, ok := spinnerTypes[spinnerType]; ok {
		return spinner
	}
	panic(
		fmt.Errorf(
			"error %d: spinner type %s not found",
			utils.DEV_ERROR,
			spinnerType,
		),
	)
}

type Spinner struct {
	Spinner SpinnerInfo

	Colour     *color.Color
	Msg        string
	SuccessMsg string
	ErrMsg     string

	count    int
	maxCount int

	active bool
	mu     sync.Mutex
	stop   chan struct{}
}

func New(spinnerType, colour, message, successMsg, errMsg string, maxCount int) *Spinner {
	colourAttribute, ok := colourMap[colour]
	if !ok {
		panic(
			fmt.Errorf(
				"error %d: colour %s not found",
				utils.DEV_ERROR,
				colour,
			),
		)
	}

	return &Spinner{
		Spinner:    GetSpinner(spinnerType),
		Colour:     color.New(colourAttribute),
		Msg:        message,
		SuccessMsg: successMsg,
		ErrMsg:     errMsg,
		maxCount:   maxCount,
	}
}

// Starts the spinner
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}

	s.active = true
	s.stop = make(chan struct{})

	interval := time.Duration(s.Spinner.Interval) * time.Millisecond
	go func() {
		for {
			for _, frame := range s.Spinner.Frames {
				select {
				case <-s.stop:
					return
				default:
					s.mu.Lock()
					msg := s.Msg
					s.mu.Unlock()
					s.Colour.Printf("\r%s %s", frame, msg)
					time.Sleep(interval)
				}
			}
		}
	}()
}

// Updates the spinner's message while it is still spinning
func (s *Spinner) UpdateMsg(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Msg = msg
}

// Increments the spinner's internal progress counter and
// re-renders the base message with the new "x/y" progress suffix.
//
// The baseMsg is expected to contain a %d format
// specifier for the incremented counter.
func (s *Spinner) MsgIncrement(baseMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.maxCount > 0 && s.count > s.maxCount {
		s.count = s.maxCount
	}
	s.Msg = fmt.Sprintf(baseMsg, s.count)
}

// Stop stops the spinner and prints an outcome message
func (s *Spinner) Stop(hasErr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	s.active = false
	close(s.stop)

	fmt.Print("\r\033[K")
	if hasErr {
		if s.ErrMsg != "" {
			color.Red("✗ %s", s.ErrMsg)
		}
	} else {
		if s.SuccessMsg != "" {
			color.Green("✓ %s", s.SuccessMsg)
		}
	}
}

// KillProgram stops the spinner, prints the given message,
// and exits with code 2 for interrupted downloads.
func (s *Spinner) KillProgram(msg string) {
	s.Stop(true)
	color.Red(msg)
	os.Exit(2)
}
