// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package startup renders the boot-time shell script attached to new instances
package startup

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gcevm/vmctl/internal/config"
)

// MetadataKey is the instance metadata key the script is stored under
const MetadataKey = "startup-script"

// LogFile is where the script tees its progress on the instance
const LogFile = "/var/log/startup.log"

// Params are the configuration values the script depends on
type Params struct {
	OSChoice    string
	VMName      string
	MachineType string
	Zone        string
	EnableHTTP  bool
}

// ParamsFrom extracts the script parameters from a configuration store
func ParamsFrom(store *config.Store) Params {
	return Params{
		OSChoice:    store.OSChoice(),
		VMName:      store.VMName(),
		MachineType: store.MachineType(),
		Zone:        store.Zone(),
		EnableHTTP:  store.EnableHTTP(),
	}
}

const header = `#!/bin/bash
echo "=== Starting %[1]s VM Setup ===" | tee -a %[2]s
echo "Timestamp: $(date)" | tee -a %[2]s
echo "VM Name: %[3]s" | tee -a %[2]s
echo "Machine Type: %[4]s" | tee -a %[2]s
echo "Zone: %[5]s" | tee -a %[2]s
`

const apacheSection = `
echo "Updating package lists..." | tee -a %[1]s
apt-get update 2>&1 | tee -a %[1]s
echo "Installing Apache2..." | tee -a %[1]s
apt-get install -y apache2 2>&1 | tee -a %[1]s
echo "Creating hello world page..." | tee -a %[1]s
mkdir -p /var/www/html
cat > /var/www/html/index.html << 'EOF'
<html>
<head><title>vmctl-Managed VM</title></head>
<body>
<h1>Hello, World!</h1>
<p>VM: %[2]s</p>
<p>Zone: %[3]s</p>
<p>Machine Type: %[4]s</p>
<p>Managed by: vmctl</p>
<p>Timestamp: $(date)</p>
</body>
</html>
EOF
echo "Starting Apache2..." | tee -a %[1]s
systemctl start apache2 2>&1 | tee -a %[1]s
systemctl enable apache2 2>&1 | tee -a %[1]s
`

const nginxSection = `
echo "Installing Nginx..." | tee -a %[1]s
apt-get update 2>&1 | tee -a %[1]s
apt-get install -y nginx 2>&1 | tee -a %[1]s
echo "<h1>Hello from Debian!</h1><p>VM: %[2]s</p>" > /var/www/html/index.html
systemctl start nginx 2>&1 | tee -a %[1]s
systemctl enable nginx 2>&1 | tee -a %[1]s
`

const footer = `
echo "=== %[1]s VM Setup Complete ===" | tee -a %[2]s
`

// Generate renders the startup script for p. Only ubuntu and debian get an
// HTTP server section; every OS gets the header and footer.
func Generate(p Params) string {
	title := cases.Title(language.Und).String(p.OSChoice)

	var b strings.Builder
	fmt.Fprintf(&b, header, title, LogFile, p.VMName, p.MachineType, p.Zone)

	if p.EnableHTTP {
		switch p.OSChoice {
		case "ubuntu":
			fmt.Fprintf(&b, apacheSection, LogFile, p.VMName, p.Zone, p.MachineType)
		case "debian":
			fmt.Fprintf(&b, nginxSection, LogFile, p.VMName)
		}
	}

	fmt.Fprintf(&b, footer, title, LogFile)
	return b.String()
}
