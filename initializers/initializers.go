package initializers

import (
	"context"

	"docflow-backend/config"
	"docflow-backend/fiberlog"
	approvalhandler "docflow-backend/lib/approval"
	attachmenthandler "docflow-backend/lib/attachment"
	documenthandler "docflow-backend/lib/document"
	xlsexport "docflow-backend/lib/export/xls"
	notifyhandler "docflow-backend/lib/notify"
	"docflow-backend/lib/seal"
	usershandler "docflow-backend/lib/users"
	worklisthandler "docflow-backend/lib/worklist"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	seal.NewHandler()
	notifyhandler.NewHandler()
	usershandler.NewHandler()
	attachmenthandler.NewHandler()
	approvalhandler.NewHandler()
	worklisthandler.NewHandler()
	documenthandler.NewHandler()
	xlsexport.NewHandler()
}
