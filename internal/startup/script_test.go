// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package startup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/testsupport"
)

const ubuntuGolden = `#!/bin/bash
echo "=== Starting Ubuntu VM Setup ===" | tee -a /var/log/startup.log
echo "Timestamp: $(date)" | tee -a /var/log/startup.log
echo "VM Name: demo" | tee -a /var/log/startup.log
echo "Machine Type: e2-micro" | tee -a /var/log/startup.log
echo "Zone: us-west1-a" | tee -a /var/log/startup.log

echo "Updating package lists..." | tee -a /var/log/startup.log
apt-get update 2>&1 | tee -a /var/log/startup.log
echo "Installing Apache2..." | tee -a /var/log/startup.log
apt-get install -y apache2 2>&1 | tee -a /var/log/startup.log
echo "Creating hello world page..." | tee -a /var/log/startup.log
mkdir -p /var/www/html
cat > /var/www/html/index.html << 'EOF'
<html>
<head><title>vmctl-Managed VM</title></head>
<body>
<h1>Hello, World!</h1>
<p>VM: demo</p>
<p>Zone: us-west1-a</p>
<p>Machine Type: e2-micro</p>
<p>Managed by: vmctl</p>
<p>Timestamp: $(date)</p>
</body>
</html>
EOF
echo "Starting Apache2..." | tee -a /var/log/startup.log
systemctl start apache2 2>&1 | tee -a /var/log/startup.log
systemctl enable apache2 2>&1 | tee -a /var/log/startup.log

echo "=== Ubuntu VM Setup Complete ===" | tee -a /var/log/startup.log
`

func TestGenerateUbuntuGolden(t *testing.T) {
	script := Generate(Params{
		OSChoice:    "ubuntu",
		VMName:      "demo",
		MachineType: "e2-micro",
		Zone:        "us-west1-a",
		EnableHTTP:  true,
	})
	assert.Equal(t, ubuntuGolden, script)
}

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name     string
		params   Params
		contains []string
		excludes []string
	}{
		{
			name:     "debian installs nginx",
			params:   Params{OSChoice: "debian", VMName: "web-1", MachineType: "e2-small", Zone: "us-east1-b", EnableHTTP: true},
			contains: []string{"=== Starting Debian VM Setup ===", "apt-get install -y nginx", "<p>VM: web-1</p>", "systemctl enable nginx"},
			excludes: []string{"apache2"},
		},
		{
			name:     "http disabled has no server section",
			params:   Params{OSChoice: "ubuntu", VMName: "quiet", MachineType: "e2-micro", Zone: "us-central1-a"},
			contains: []string{"VM Name: quiet", "Zone: us-central1-a", "=== Ubuntu VM Setup Complete ==="},
			excludes: []string{"apache2", "nginx", "index.html"},
		},
		{
			name:     "unknown os keeps header and footer",
			params:   Params{OSChoice: "plan9", VMName: "odd", MachineType: "e2-micro", Zone: "us-central1-a", EnableHTTP: true},
			contains: []string{"=== Starting Plan9 VM Setup ===", "VM Name: odd", "=== Plan9 VM Setup Complete ==="},
			excludes: []string{"apt-get", "apache2", "nginx"},
		},
		{
			name:     "centos with http gets no server section",
			params:   Params{OSChoice: "centos", VMName: "c", MachineType: "e2-micro", Zone: "us-central1-a", EnableHTTP: true},
			contains: []string{"=== Starting Centos VM Setup ==="},
			excludes: []string{"apt-get"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			script := Generate(tc.params)
			for _, want := range tc.contains {
				assert.Contains(t, script, want)
			}
			for _, unwanted := range tc.excludes {
				assert.NotContains(t, script, unwanted)
			}
			assert.True(t, strings.HasPrefix(script, "#!/bin/bash\n"))
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := Params{OSChoice: "debian", VMName: "same", MachineType: "e2-micro", Zone: "asia-southeast1-a", EnableHTTP: true}
	assert.Equal(t, Generate(p), Generate(p))
}

func TestParamsFromStore(t *testing.T) {
	store := testsupport.NewStore(t, map[string]any{
		config.KeyOSChoice:         "ubuntu",
		config.KeyEnableHTTPServer: true,
		config.KeyVMName:           "demo",
		config.KeyRegion:           "us-west1",
	})

	p := ParamsFrom(store)
	require.Equal(t, Params{
		OSChoice:    "ubuntu",
		VMName:      "demo",
		MachineType: "e2-micro",
		Zone:        "us-west1-a",
		EnableHTTP:  true,
	}, p)

	script := Generate(p)
	assert.Contains(t, script, "apt-get install -y apache2")
	assert.Contains(t, script, "<p>VM: demo</p>")
	assert.Contains(t, script, "us-west1-a")
}
