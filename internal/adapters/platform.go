package adapters

import (
	"os"
	"os/user"
	"strings"

	"github.com/yzgyyang/portcran/internal/types"
)

// DetectPlatform derives the maintainer identity from the current user
// and host: <login>@<hostname> and the account's full name.
func DetectPlatform() types.Platform {
	login := "nobody"
	fullName := ""
	if current, err := user.Current(); err == nil {
		login = current.Username
		fullName, _, _ = strings.Cut(current.Name, ",")
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	if fullName == "" {
		fullName = login
	}
	return types.Platform{
		Address:   login + "@" + host,
		FullName:  fullName,
		TabWidth:  types.DefaultTabWidth,
		PageWidth: types.DefaultPageWidth,
	}
}
