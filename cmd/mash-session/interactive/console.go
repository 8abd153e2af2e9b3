// Package interactive provides the command console for mash-session.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/mash-protocol/mash-session/internal/sim"
	"github.com/mash-protocol/mash-session/pkg/adapter"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// FutureTimeout bounds how long a command waits for an operation.
const FutureTimeout = 2 * time.Second

// Console drives an adapted session from text commands.
type Console struct {
	s   *adapter.Session
	dev *sim.Session
	out io.Writer
	rl  *readline.Instance

	useCases map[string]session.UseCase

	mu      sync.Mutex
	watches []func()
}

// New creates a console writing to out.
func New(s *adapter.Session, dev *sim.Session, out io.Writer) *Console {
	return &Console{
		s:        s,
		dev:      dev,
		out:      &syncWriter{w: out},
		useCases: make(map[string]session.UseCase),
	}
}

// syncWriter serializes writes from watches and commands.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// NewInteractive creates a console reading commands from the terminal.
func NewInteractive(s *adapter.Session, dev *sim.Session) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "session> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := New(s, dev, rl.Stdout())
	c.rl = rl
	return c, nil
}

// Stderr returns a writer that coordinates with the prompt. Use it for log
// output in interactive mode.
func (c *Console) Stderr() io.Writer {
	if c.rl != nil {
		return c.rl.Stderr()
	}
	return c.out
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	defer c.stopWatches()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if c.Exec(line) {
			cancel()
			return
		}
	}
}

// RunScript executes one command per line of r. Blank lines and lines
// starting with '#' are skipped.
func (c *Console) RunScript(r io.Reader) error {
	defer c.stopWatches()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(c.out, "> %s\n", line)
		if c.Exec(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Exec executes one command. It reports whether the console should exit.
func (c *Console) Exec(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "open":
		c.report(c.s.Open())
	case "close":
		c.report(c.s.Close())
	case "state", "s":
		c.cmdState()
	case "info", "i":
		c.cmdInfo()
	case "watch":
		c.cmdWatch()
	case "attach", "a":
		c.cmdAttach(args)
	case "detach", "d":
		c.cmdDetach(args)
	case "active":
		c.cmdUseCaseEvent(args, c.s.OnUseCaseActive)
	case "inactive":
		c.cmdUseCaseEvent(args, c.s.OnUseCaseInactive)
	case "combo":
		c.cmdCombo(args)
	case "zoom", "z":
		c.cmdZoom(args, false)
	case "linear":
		c.cmdZoom(args, true)
	case "torch", "t":
		c.cmdTorch(args)
	case "flash":
		c.cmdFlash(args)
	case "exposure", "ev":
		c.cmdExposure(args)
	case "focus", "f":
		c.cmdFocus(args)
	case "cancel":
		c.wait(c.s.Control().CancelFocusAndMetering())
	case "release":
		c.wait(c.s.Release())
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  open | close                 Open or close the device
  state                        Show session state and binding
  info                         Show device information
  watch                        Print state changes as they happen
  attach <kind> <name>         Attach a use case (preview, capture, analysis, video, sharing)
  detach <name>...             Detach use cases
  active | inactive <name>     Report use case activity
  combo <name>...              Check whether use cases can be combined
  zoom <ratio> | linear <0..1> Set zoom
  torch on|off                 Switch the torch
  flash off|on|auto            Set the flash mode
  exposure <index>             Set exposure compensation
  focus <af,ae,awb> <x> <y>    Start focus and metering
  cancel                       Cancel focus and metering
  release                      Release the device
  quit                         Exit`)
}

func (c *Console) report(err error) {
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) wait(f *session.Future) {
	ctx, cancel := context.WithTimeout(context.Background(), FutureTimeout)
	defer cancel()
	c.report(f.Wait(ctx))
}

func (c *Console) cmdState() {
	fmt.Fprintf(c.out, "State:     %s\n", c.s.State().Value())
	cfg := c.s.AdapterInfo().PolicyConfig()
	fmt.Fprintf(c.out, "Policy:    %s\n", cfg.ID)
	if p := c.s.AdapterControl().Processor(); p != nil {
		fmt.Fprintf(c.out, "Processor: %s\n", p.ID())
	} else {
		fmt.Fprintln(c.out, "Processor: (none)")
	}

	names := make([]string, 0, len(c.useCases))
	for name := range c.useCases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		uc := c.useCases[name]
		fmt.Fprintf(c.out, "Use case:  %s (%s) active=%v\n", name, uc.Kind(), c.dev.IsActive(uc))
	}
}

func (c *Console) cmdInfo() {
	info := c.s.InfoInternal()
	zs := info.ZoomState().Value()
	es := info.ExposureState()

	fmt.Fprintf(c.out, "Device:    %s (%s, rotation %d)\n", info.DeviceID(), info.LensFacing(), info.SensorRotationDegrees())
	fmt.Fprintf(c.out, "Flash:     %v (mode %s, torch %s)\n", info.HasFlashUnit(), c.s.ControlInternal().FlashMode(), info.TorchState().Value())
	fmt.Fprintf(c.out, "Zoom:      %.2f [%.2f, %.2f] linear %.2f\n", zs.Ratio, zs.MinRatio, zs.MaxRatio, zs.LinearZoom)
	fmt.Fprintf(c.out, "Exposure:  %d [%d, %d] supported=%v\n", es.Index, es.MinIndex, es.MaxIndex, es.Supported)
	fmt.Fprintf(c.out, "ZSL:       %v\n", info.IsZSLSupported())
	fmt.Fprintf(c.out, "Postview:  %v\n", info.IsPostviewSupported())
	fmt.Fprintf(c.out, "Progress:  %v\n", info.IsCaptureProcessProgressSupported())
}

func (c *Console) cmdWatch() {
	ch, cancel := c.s.State().Observe()

	c.mu.Lock()
	c.watches = append(c.watches, cancel)
	c.mu.Unlock()

	// The current value arrives synchronously so the watch reports it
	// before the next command runs.
	fmt.Fprintf(c.out, "[state] %s\n", <-ch)
	go func() {
		for st := range ch {
			fmt.Fprintf(c.out, "[state] %s\n", st)
		}
	}()
}

func (c *Console) stopWatches() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cancel := range c.watches {
		cancel()
	}
	c.watches = nil
}

var useCaseKinds = map[string]session.UseCaseKind{
	"preview":  session.UseCasePreview,
	"capture":  session.UseCaseImageCapture,
	"analysis": session.UseCaseImageAnalysis,
	"video":    session.UseCaseVideoCapture,
	"sharing":  session.UseCaseStreamSharing,
}

func (c *Console) cmdAttach(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: attach <kind> <name>")
		return
	}
	kind, ok := useCaseKinds[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(c.out, "Unknown use case kind: %s\n", args[0])
		return
	}

	// Reusing a name reattaches the same use case.
	uc, ok := c.useCases[args[1]]
	if !ok {
		uc = session.NewUseCase(args[1], kind)
	}
	err := c.s.AttachUseCases([]session.UseCase{uc})
	if err == nil {
		c.useCases[args[1]] = uc
	}
	c.report(err)
}

func (c *Console) cmdDetach(args []string) {
	ucs, ok := c.lookupUseCases(args)
	if !ok {
		return
	}
	c.s.DetachUseCases(ucs)
	for _, name := range args {
		delete(c.useCases, name)
	}
	c.report(nil)
}

func (c *Console) cmdUseCaseEvent(args []string, fn func(session.UseCase)) {
	ucs, ok := c.lookupUseCases(args)
	if !ok {
		return
	}
	for _, uc := range ucs {
		fn(uc)
	}
	c.report(nil)
}

func (c *Console) cmdCombo(args []string) {
	ucs, ok := c.lookupUseCases(args)
	if !ok {
		return
	}
	fmt.Fprintf(c.out, "Supported:          %v\n", c.s.IsUseCasesCombinationSupported(ucs...))
	fmt.Fprintf(c.out, "With stream sharing: %v\n", c.s.IsUseCasesCombinationSupportedWithStreamSharing(true, ucs...))
	fmt.Fprintf(c.out, "By framework:       %v\n", c.s.IsUseCasesCombinationSupportedByFramework(ucs...))
}

func (c *Console) lookupUseCases(names []string) ([]session.UseCase, bool) {
	if len(names) == 0 {
		fmt.Fprintln(c.out, "Usage: <command> <name>...")
		return nil, false
	}
	ucs := make([]session.UseCase, 0, len(names))
	for _, name := range names {
		uc, ok := c.useCases[name]
		if !ok {
			fmt.Fprintf(c.out, "Unknown use case: %s\n", name)
			return nil, false
		}
		ucs = append(ucs, uc)
	}
	return ucs, true
}

func (c *Console) cmdZoom(args []string, linear bool) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: zoom <ratio> | linear <0..1>")
		return
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid value: %s\n", args[0])
		return
	}
	if linear {
		c.wait(c.s.Control().SetLinearZoom(float32(v)))
		return
	}
	c.wait(c.s.Control().SetZoomRatio(float32(v)))
}

func (c *Console) cmdTorch(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(c.out, "Usage: torch on|off")
		return
	}
	c.wait(c.s.Control().EnableTorch(args[0] == "on"))
}

var flashModes = map[string]session.FlashMode{
	"off":  session.FlashModeOff,
	"on":   session.FlashModeOn,
	"auto": session.FlashModeAuto,
}

func (c *Console) cmdFlash(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: flash off|on|auto")
		return
	}
	mode, ok := flashModes[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(c.out, "Unknown flash mode: %s\n", args[0])
		return
	}
	c.report(c.s.ControlInternal().SetFlashMode(mode))
}

func (c *Console) cmdExposure(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: exposure <index>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid index: %s\n", args[0])
		return
	}
	c.wait(c.s.Control().SetExposureCompensationIndex(idx))
}

var meteringModes = map[string]session.MeteringMode{
	"af":  session.MeteringAF,
	"ae":  session.MeteringAE,
	"awb": session.MeteringAWB,
}

func (c *Console) cmdFocus(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(c.out, "Usage: focus <af,ae,awb> <x> <y>")
		return
	}

	var modes session.MeteringMode
	for _, m := range strings.Split(args[0], ",") {
		mode, ok := meteringModes[strings.ToLower(m)]
		if !ok {
			fmt.Fprintf(c.out, "Unknown metering mode: %s\n", m)
			return
		}
		modes |= mode
	}
	x, errX := strconv.ParseFloat(args[1], 32)
	y, errY := strconv.ParseFloat(args[2], 32)
	if errX != nil || errY != nil {
		fmt.Fprintln(c.out, "Invalid point")
		return
	}

	c.wait(c.s.Control().StartFocusAndMetering(session.FocusMeteringAction{
		Points: []session.MeteringPoint{{X: float32(x), Y: float32(y), Size: 0.15}},
		Modes:  modes,
	}))
}
