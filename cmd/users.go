package cmd

import domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"

var usersCmd = newDomainCommand(domainAccess.Users, "Manage pending and allowed senders")

func init() {
	rootCmd.AddCommand(usersCmd)
}
