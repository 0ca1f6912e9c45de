package config

// comments is written above each known top-level key when a document is saved.
var comments = map[string]string{
	"signal_number":            "Define the number which is attached to the bot",
	"websocket_url":            "Define the websocket url to listen for messages",
	"signal_api_url":           "Define the api url to send various commands",
	"smtp_server":              "Define mail server to send mail alerts when connection to rest api is lost",
	"smtp_port":                "Define mail port",
	"alert_email_from":         "Define email from address",
	"alert_email_to":           "Define email to address",
	"reconnect_alert_timeout":  "Define the amount of seconds to wait before sending an email",
	"nagios_cmd_file":          "Define the nagios cmd file to send commands to nagios (Use absolute path)",
	"nagios_status_file":       "Define the nagios status file to check the notification status",
	"pending_users_file":       "Define the pending user file for dynamic user management (Use absolute path)",
	"pending_groups_file":      "Define the pending group file for dynamic group management (Use absolute path)",
	"pid_file":                 "Define the pid file for daemon process (Use absolute path)",
	"dynamic_user_management":  "Allow dynamic user management",
	"dynamic_group_management": "Allow dynamic group management",
	"log_level":                "Set the log level (Default: INFO)",
	"group_lock": "Allowed groups locked\n" +
		"Set this to true to lock groups to the list of groups in allowed_groups\n" +
		"Since we need to build the groups first and fetch the id set this to false on the first run",
	"allowed_senders": "Define the list of authorized senders\n" +
		"When uuid is unknown start the bot and sent the !info command.\n" +
		"Example user format (commented out, do not touch here):\n" +
		"allowed_senders:\n" +
		"  - name: Jenny Doe / Tommy Tutone\n" +
		"    number: +15558675309\n" +
		"    uuid: 550e8400-e29b-41d4-a716-446655440000",
	"allowed_groups": "Define list of groups to receive/process messages in",
}

// CommentBlock prefixes every line of the comment registered for key with "# ".
func CommentBlock(key string) string {
	text, ok := comments[key]
	if !ok {
		return ""
	}
	return commentLines(text)
}
