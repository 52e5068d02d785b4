package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clara-api/internal/application/correction"
	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	infraai "github.com/jhoicas/clara-api/internal/infrastructure/ai"
	"github.com/jhoicas/clara-api/internal/infrastructure/detector"
	"github.com/jhoicas/clara-api/internal/infrastructure/store"
	"github.com/jhoicas/clara-api/pkg/config"
	"github.com/jhoicas/clara-api/pkg/jwt"
	"github.com/jhoicas/clara-api/pkg/logger"
)

var version = "dev"

// app estado compartido por los subcomandos; se abre en PersistentPreRunE.
type app struct {
	cfg      *config.Config
	driver   string
	sqlite   string
	profiles *store.Profiles
	engine   *subscription.PolicyEngine
	defLang  language.Code
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "claractl",
		Short:        "Administración de suscripciones de Clara",
		Long:         `Consulta y modifica perfiles de sesión (nivel, idioma activo) y emite tokens JWT de operador.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "almacén de perfiles (memory, postgres, sqlite); por defecto STORE_DRIVER")
	root.PersistentFlags().StringVar(&a.sqlite, "sqlite-path", "", "ruta del archivo SQLite; por defecto SQLITE_PATH")

	root.AddCommand(
		a.statusCmd(),
		a.ensureCmd(),
		a.upgradeCmd(),
		a.downgradeCmd(),
		a.switchCmd(),
		a.tokenCmd(),
		a.detectCmd(),
		a.analyzeCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Store.Driver = strings.ToLower(a.driver)
	}
	if a.sqlite != "" {
		cfg.Store.SQLitePath = a.sqlite
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// open prepara config, almacén y motor; cada RunE cierra con closeStore.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	def, err := language.Parse(a.cfg.Subscription.DefaultLanguage)
	if err != nil {
		return err
	}
	profiles, err := store.Open(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}
	a.defLang = def
	a.profiles = profiles
	a.engine = subscription.NewPolicyEngine(profiles.Repo, profiles.Tx, subscription.Config{
		DefaultLanguage: def,
		DowngradePolicy: subscription.DowngradePolicy(a.cfg.Subscription.DowngradePolicy),
	}, logger.Nop().Zerolog(), nil)
	return nil
}

func (a *app) closeStore() {
	if a.profiles != nil {
		a.profiles.Close()
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "status <sessionId>",
		Short:             "Muestra el estado de suscripción (crea el perfil por defecto si no existe)",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeStore()
			st, err := a.engine.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tTYPE\tACTIVE\tAVAILABLE\tCAN SWITCH")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
				args[0], st.SubscriptionType, st.ActiveLanguage,
				strings.Join(language.Strings(st.AvailableLanguages), ","), st.CanSwitchLanguages)
			return w.Flush()
		},
	}
}

func (a *app) ensureCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:               "ensure <sessionId>",
		Short:             "Crea el perfil freemium si no existe",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeStore()
			def := a.defLang
			if lang != "" {
				l, err := language.Parse(lang)
				if err != nil {
					return err
				}
				def = l
			}
			p, err := a.engine.EnsureProfile(cmd.Context(), args[0], def)
			if err != nil {
				return err
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&lang, "language", "", "idioma inicial (es, en, fr, it, de, pt)")
	return cmd
}

func (a *app) upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "upgrade <sessionId>",
		Short:             "Pasa la sesión a premium",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeStore()
			p, err := a.engine.Upgrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
}

func (a *app) downgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "downgrade <sessionId>",
		Short:             "Vuelve la sesión a freemium",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeStore()
			p, err := a.engine.Downgrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
}

// switchCmd acepta cualquier código: un premium que pide uno fuera del conjunto
// recibe unsupported_language igual que en el motor.
func (a *app) switchCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "switch <sessionId> <language>",
		Short:             "Cambia el idioma activo aplicando las reglas de suscripción",
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeStore()
			res, err := a.engine.SwitchActiveLanguage(cmd.Context(), args[0], language.Code(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Outcome, res.Message)
			if !res.Success {
				return fmt.Errorf("cambio rechazado: %s", res.Outcome)
			}
			return nil
		},
	}
}

func (a *app) tokenCmd() *cobra.Command {
	var subject string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de operador para upgrade/downgrade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			exp := a.cfg.Admin.Expiration
			if minutes > 0 {
				exp = minutes
			}
			tok, err := jwt.Generate(a.cfg.Admin.JWTSecret, subject, jwt.RoleAdmin, a.cfg.Admin.JWTIssuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "claractl", "sujeto del token")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "minutos de validez; por defecto ADMIN_JWT_EXPIRATION_MINUTES")
	return cmd
}

func (a *app) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Lista los idiomas soportados detectados en un texto",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := detector.New().DetectLanguages(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(language.Strings(codes), ","))
			return nil
		},
	}
}

// analyzeCmd ejecuta el pipeline de corrección con el proveedor de AI_PROVIDER.
func (a *app) analyzeCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Corre las dos etapas de corrección sobre un enunciado",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			l, err := language.Parse(lang)
			if err != nil {
				return err
			}
			classifier, err := infraai.NewClassifier(a.cfg.AI)
			if err != nil {
				return err
			}
			if infraai.IsNoop(classifier) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aviso: AI_PROVIDER=none, no habrá hallazgos")
			}
			p := correction.NewPipeline(classifier, correction.Config{
				BasicTemperature:      a.cfg.Correction.BasicTemperature,
				BasicMaxTokens:        a.cfg.Correction.BasicMaxTokens,
				ArtificialTemperature: a.cfg.Correction.ArtificialTemperature,
				ArtificialMaxTokens:   a.cfg.Correction.ArtificialMaxTokens,
				StageTimeout:          a.cfg.Correction.StageTimeout,
			}, logger.Nop().Zerolog(), nil)

			res := p.Analyze(cmd.Context(), strings.Join(args, " "), l)
			return printAnalysis(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&lang, "language", "en", "idioma del enunciado")
	return cmd
}

func printProfile(out io.Writer, p *entity.UserProfile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tTYPE\tACTIVE\tPREFERRED\tAVAILABLE")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		p.SessionID, p.SubscriptionType, p.ActiveLanguage, p.PreferredLanguage,
		strings.Join(language.Strings(p.AvailableLanguages), ","))
	return w.Flush()
}

func printAnalysis(out io.Writer, res correction.Analysis) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tWRONG\tCORRECT")
	for _, f := range res.Findings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Kind, f.Wrong, f.Correct)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.CorrectedSentence != "" {
		fmt.Fprintf(out, "corrected: %s\n", res.CorrectedSentence)
	}
	if res.Degraded() {
		fmt.Fprintf(out, "degraded: %v\n", res.DegradedStages)
	}
	return nil
}
