package daemon

import (
	"fmt"
	"io"
	"os"
)

// Deploy generators: rendered files for running the daemon under systemd,
// cron, or docker compose.

// WriteSystemdService writes a systemd unit file to path and prints install
// steps to w.
func WriteSystemdService(w io.Writer, path string, portfolioValue float64) error {
	content := fmt.Sprintf(`[Unit]
Description=Crypto Momentum Daemon
After=network.target

[Service]
Type=simple
User=cryptomomentum
WorkingDirectory=/opt/cryptomomentum
ExecStart=/opt/cryptomomentum/cryptomomentum daemon
Restart=always
RestartSec=10
Environment=LOG_LEVEL=info
Environment=PORTFOLIO_VALUE=%.0f
Environment=CG_PRO_API_KEY=your_api_key_here

[Install]
WantedBy=multi-user.target
`, portfolioValue)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "Systemd service file generated: %s\n", path)
	fmt.Fprintln(w, "To install:")
	fmt.Fprintf(w, "  sudo cp %s /etc/systemd/system/\n", path)
	fmt.Fprintln(w, "  sudo systemctl daemon-reload")
	fmt.Fprintln(w, "  sudo systemctl enable cryptomomentum")
	fmt.Fprintln(w, "  sudo systemctl start cryptomomentum")
	return nil
}

// WriteCronJob writes a cron.d entry running a one-shot cycle on the given
// schedule.
func WriteCronJob(w io.Writer, path string, cronSpec string) error {
	content := fmt.Sprintf(`# Crypto Momentum Daemon - scheduled one-shot cycles
%s cryptomomentum /opt/cryptomomentum/cryptomomentum run >> /var/log/cryptomomentum.log 2>&1

# Clean old logs weekly
0 2 * * 0 root find /var/log/cryptomomentum.log -mtime +7 -delete
`, cronSpec)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "Cron job generated: %s\n", path)
	fmt.Fprintln(w, "To install:")
	fmt.Fprintf(w, "  sudo cp %s /etc/cron.d/cryptomomentum\n", path)
	fmt.Fprintln(w, "  sudo chmod 644 /etc/cron.d/cryptomomentum")
	return nil
}

// WriteDockerCompose writes a docker compose file for containerized
// deployment.
func WriteDockerCompose(w io.Writer, path string, portfolioValue float64) error {
	content := fmt.Sprintf(`services:
  cryptomomentum:
    build: .
    container_name: cryptomomentum-daemon
    restart: unless-stopped
    environment:
      - LOG_LEVEL=info
      - PORTFOLIO_VALUE=%.0f
      - CG_PRO_API_KEY=your_api_key_here
    volumes:
      - ./data:/app/data
      - ./out:/app/out
      - ./logs:/app/logs
    command: daemon
`, portfolioValue)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "Docker Compose file generated: %s\n", path)
	fmt.Fprintln(w, "To deploy:")
	fmt.Fprintln(w, "  docker compose up -d")
	fmt.Fprintln(w, "  docker compose logs -f cryptomomentum")
	return nil
}
