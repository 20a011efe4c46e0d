package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/telegram-file-bot/internal/filebot/dao"
	"github.com/Laisky/telegram-file-bot/internal/filebot/service"
	"github.com/Laisky/telegram-file-bot/internal/web"
	"github.com/Laisky/telegram-file-bot/library/db/postgres"
	"github.com/Laisky/telegram-file-bot/library/log"
)

var botCMD = &cobra.Command{
	Use:   "bot",
	Short: "bot",
	Long:  `run the telegram bot and the keep-alive web server`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if err := initialize(context.Background(), cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := postgres.NewDB(ctx, postgres.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.addr"),
			DBName: gconfig.Shared.GetString("settings.db.db"),
			User:   gconfig.Shared.GetString("settings.db.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.pwd"),
		})
		if err != nil {
			log.Logger.Panic("dial db", zap.Error(err))
		}

		filesDAO, err := dao.NewFiles(db.DB)
		if err != nil {
			log.Logger.Panic("new files dao", zap.Error(err))
		}

		if _, err = service.New(ctx,
			filesDAO,
			gconfig.Shared.GetString("settings.telegram.token"),
			gconfig.Shared.GetString("settings.telegram.api"),
		); err != nil {
			log.Logger.Panic("new telegram bot", zap.Error(err))
		}

		web.RunServer(gconfig.Shared.GetString("listen"))
	},
}

func init() {
	rootCMD.AddCommand(botCMD)
}
