package cmd

import domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"

var groupsCmd = newDomainCommand(domainAccess.Groups, "Manage pending and allowed groups")

func init() {
	rootCmd.AddCommand(groupsCmd)
}
