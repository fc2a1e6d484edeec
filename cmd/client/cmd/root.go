// cmd/client/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
	"golang.org/x/term"

	"lemonpunch/internal/app/client"
	"lemonpunch/internal/app/client/config"
	"lemonpunch/internal/utils/logger"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "lemonpunch",
	Short: "LemonPunch - клиент для учета торговых точек и образцов",
	Long: `LemonPunch ведет записи о торговых точках (outlets) и прикрепленных
к ним образцах: фото, видео и аудио.

Записи хранятся на сервере; клиент держит их копию в памяти, фильтрует
и сортирует ее и получает изменения в реальном времени.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Ошибка:"), err)
		os.Exit(1)
	}
}

// setupApp загружает конфигурацию и логгер; клиент собирается для всех
// команд, кроме init, которая сама создает устройство
func setupApp(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	var err error
	cfg, err = config.LoadWithEnv(viper.GetViper())
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.NewCLI(level, os.Stderr)

	if !needsApp(cmd) {
		return nil
	}

	app, err := client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	cmd.SetContext(client.WithApp(cmd.Context(), app))
	return nil
}

// annotationNoApp помечает команды, которым не нужен собранный клиент
const annotationNoApp = "no-app"

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoApp] == "true" {
			return false
		}
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера LemonPunch")

	_ = viper.BindPFlag("server_address", rootCmd.PersistentFlags().Lookup("server"))
}
