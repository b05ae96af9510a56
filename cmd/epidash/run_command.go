package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"epidash/internal/charts"
	"epidash/internal/dashboard"
	"epidash/internal/frames"
	"epidash/internal/logging"
	"epidash/internal/screen"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the full-screen live dashboard",
		Long: "Start the full-screen live dashboard.\n\n" +
			"The clock refreshes every refresh.clock_interval seconds and every dataset\n" +
			"reloads every refresh.data_interval seconds. Logs go to the log file so they\n" +
			"never overwrite the screen. Press Ctrl+C to exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(false)
			if err != nil {
				return err
			}
			client, err := ctx.newClient(logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			scr := screen.NewDashboard(screen.WithColor(screen.ColorEnabled(cfg.Display.Color, out)))
			if w, h, err := terminalSize(out); err == nil {
				scr.Resize(w, h)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := newPainter(out, scr)
			loop := frames.NewLoop(logger, p.afterFrame)

			deps := dashboard.Deps{
				Config: cfg,
				Loader: client,
				Screen: scr,
				Frames: loop,
				Logger: logger,
			}
			if cfg.Export.Enabled {
				deps.Exporter = charts.NewExporter(cfg.Export.Dir, logger)
			}

			p.begin()
			defer p.end()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				loop.Run(runCtx, cfg.FrameInterval())
			}()

			dash, err := dashboard.Start(runCtx, deps)
			if err != nil {
				stop()
				wg.Wait()
				return err
			}
			logger.Info("live dashboard running",
				logging.String("base_url", cfg.API.BaseURL),
				logging.Duration("clock_interval", cfg.ClockInterval()),
				logging.Duration("data_interval", cfg.DataInterval()),
			)

			winch := make(chan os.Signal, 1)
			signal.Notify(winch, syscall.SIGWINCH)
			defer signal.Stop(winch)

			for {
				select {
				case <-runCtx.Done():
					dash.Teardown()
					wg.Wait()
					return nil
				case <-winch:
					w, h, err := terminalSize(out)
					if err != nil {
						logger.Debug("terminal size unavailable", logging.Error(err))
						continue
					}
					dash.Resize(w, h)
					p.invalidate()
				}
			}
		},
	}
}

// painter redraws the screen after frames whose output changed.
type painter struct {
	mu     sync.Mutex
	out    io.Writer
	screen *screen.Screen
	last   string
	tty    bool
}

func newPainter(out io.Writer, scr *screen.Screen) *painter {
	return &painter{out: out, screen: scr, tty: screen.IsTerminal(out)}
}

func (p *painter) begin() {
	if p.tty {
		fmt.Fprint(p.out, screen.HideCursor)
	}
}

func (p *painter) end() {
	if p.tty {
		fmt.Fprint(p.out, screen.ShowCursor)
	}
}

func (p *painter) invalidate() {
	p.mu.Lock()
	p.last = ""
	p.mu.Unlock()
}

func (p *painter) afterFrame(now time.Time, _ int) {
	frame := p.screen.Frame(now)
	p.mu.Lock()
	defer p.mu.Unlock()
	if frame == p.last {
		return
	}
	p.last = frame
	if p.tty {
		_, _ = io.WriteString(p.out, screen.ClearHome)
	}
	_, _ = io.WriteString(p.out, frame)
}

func terminalSize(w io.Writer) (int, int, error) {
	file, ok := w.(*os.File)
	if !ok {
		return 0, 0, fmt.Errorf("output is not a terminal")
	}
	return screen.TerminalSize(file.Fd())
}
