// cmd/client/cmd/watch/watch.go
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lemonpunch/cmd/client/cmd/record"
	"lemonpunch/internal/app/client"
	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/app/client/render"
	domain "lemonpunch/internal/domain/record"
)

const clearScreen = "\033[H\033[2J"

var (
	watchQuery string
	watchSort  string
	watchDesc  bool
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за записями в реальном времени",
	Long: `Подписывается на поток изменений сервера и перерисовывает таблицу
после каждого перечитывания записей.

Ввод номера колонки (1-7) или ее имени и Enter переключает сортировку:
повторный выбор той же колонки меняет направление. q и Enter или Ctrl+C - выход.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		key, err := record.SortKey(watchSort, watchDesc)
		if err != nil {
			return err
		}
		view := app.View()
		view.SetQuery(watchQuery)
		view.SetSort(key)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		screen := &Screen{
			Out:         os.Stdout,
			View:        view,
			Clear:       interactive,
			Interactive: interactive && term.IsTerminal(int(os.Stdin.Fd())),
		}
		if screen.Interactive {
			go ReadCommands(ctx, os.Stdin, screen, stop)
		}
		return run(ctx, app, screen)
	},
}

func run(ctx context.Context, app *client.App, screen *Screen) error {
	err := app.Watch(ctx, func(_ []domain.Record, upd client.SyncUpdate) {
		screen.Update(upd)
	})
	if err != nil {
		return fmt.Errorf("синхронизация остановлена: %w", err)
	}
	fmt.Fprintln(screen.Out, "\nНаблюдение завершено")
	return nil
}

// Screen перерисовывает проекцию View на каждое обновление кэша и на смену сортировки
type Screen struct {
	Out         io.Writer
	View        *cache.View
	Clear       bool
	Interactive bool
	Now         func() time.Time

	mu   sync.Mutex
	last client.SyncUpdate
}

// Update рисует экран после перечитывания записей
func (s *Screen) Update(upd client.SyncUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = upd
	s.draw()
}

// Toggle переключает сортировку по колонке и перерисовывает экран
func (s *Screen) Toggle(c cache.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.View.Toggle(c)
	s.draw()
}

func (s *Screen) draw() {
	if s.Clear {
		fmt.Fprint(s.Out, clearScreen)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	fmt.Fprintf(s.Out, "%s %s", color.CyanString("LemonPunch"), now().Format("15:04:05"))
	if q := s.View.Query(); q != "" {
		fmt.Fprintf(s.Out, "  поиск: %q", q)
	}
	fmt.Fprintln(s.Out)

	if s.last.Seeded {
		fmt.Fprintln(s.Out, color.GreenString("Хранилище было пустым, добавлены начальные записи"))
	}
	if s.last.Err != nil {
		fmt.Fprintln(s.Out, color.YellowString("⚠️  Не удалось обновить записи: %v", s.last.Err))
	}
	fmt.Fprintln(s.Out)

	_ = render.Table(s.Out, s.View.Rows(), s.View.SortKey())

	if s.Interactive {
		fmt.Fprintln(s.Out, "\nСортировка: номер колонки 1-7 или имя, q - выход")
	}
}

// ReadCommands читает команды построчно до конца ввода или отмены ctx.
// Неизвестные команды игнорируются.
func ReadCommands(ctx context.Context, in io.Reader, screen *Screen, quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			quit()
			return
		}
		if c, ok := parseColumn(line); ok {
			screen.Toggle(c)
		}
	}
}

// parseColumn принимает номер колонки в порядке таблицы (с 1) или ее имя
func parseColumn(s string) (cache.Column, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(cache.Columns) {
			return "", false
		}
		return cache.Columns[n-1], true
	}
	c, err := cache.ParseColumn(s)
	if err != nil {
		return "", false
	}
	return c, true
}

func init() {
	WatchCmd.Flags().StringVarP(&watchQuery, "query", "q", "", "строка поиска")
	WatchCmd.Flags().StringVar(&watchSort, "sort", "", "колонка сортировки")
	WatchCmd.Flags().BoolVar(&watchDesc, "desc", false, "сортировать по убыванию")
}
