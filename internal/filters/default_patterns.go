package filters

import "regexp"

func must(name, pattern, replacement, description string) Filter {
	return Filter{
		Name:        name,
		Description: description,
		regex:       regexp.MustCompile(pattern),
		replacement: replacement,
	}
}

// DefaultFilters returns the fixed set of domain normalization rules,
// already ordered for application (earliest entries run first). They are
// the compiled-in fallback used when no patterns YAML file is supplied.
func DefaultFilters() []Filter {
	return []Filter{
		must("brackets", `\[[^\[\]]*\]`, "[]",
			"square-bracketed content (pids, tags)"),
		must("angle_brackets", `<[^<>]*>`, "<>",
			"angle-bracketed content"),
		must("uuid", `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`,
			"<UUID>", "standard UUIDs"),
		must("mac_address", `\b(?:[0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2}\b`,
			"<MAC>", "MAC addresses"),
		must("ipv6_address", `\b(?:[0-9a-fA-F]{1,4}:){2,7}[0-9a-fA-F]{1,4}\b|\b::(?:[0-9a-fA-F]{1,4}:)*[0-9a-fA-F]{1,4}\b`,
			"<IPV6>", "IPv6 addresses"),
		must("ipv4_address", `\b(?:\d{1,3}\.){3}\d{1,3}\b`,
			"<IPV4>", "IPv4 addresses"),
		must("iso_datetime", `\b\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?\b`,
			"<DATETIME>", "ISO8601 timestamps"),
		must("traditional_datetime", `\b[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}\b`,
			"<DATETIME>", `"Mon d HH:MM:SS"-style syslog timestamps`),
		must("long_date", `\b\d{4}/\d{2}/\d{2}\b`,
			"<DATE>", "slash-separated dates"),
		must("time_of_day", `\b\d{2}:\d{2}:\d{2}(?:\.\d+)?\b`,
			"<TIME>", "bare HH:MM:SS clock times"),
		must("duration", `\b\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h)\b`,
			"<DURATION>", "time durations with a unit suffix"),
		must("linux_mem_size", `\b\d+\s?kB\b`,
			"<SIZE>", `Linux "NNN kB" memory sizes`),
		must("data_size", `\b\d+(?:\.\d+)?\s?(?:B|KB|MB|GB|TB)\b`,
			"<SIZE>", "byte sizes with a unit suffix"),
		must("linux_netif", `\b(?:eth|wlan|eno|ens|enp|lo|veth|br|bond|docker|tun|tap)\d+[a-z0-9]*\b`,
			"<NETIF>", "Linux network interface names"),
		must("linux_kernel_audit", `\baudit\(\d+\.\d+:\d+\)`,
			"audit(<AUDIT>)", "Linux kernel audit subsystem tags"),
		must("libvirtd_prefix", `\blibvirtd\[\d+\]:`,
			"libvirtd[<PID>]:", "libvirtd log line prefix"),
		must("hex_constant", `\b0x[0-9a-fA-F]+\b`,
			"<HEX>", "0x-prefixed hexadecimal constants"),
		must("number_constant", `\b\d+\b`,
			"<NUM>", "standalone numeric constants"),
		must("aggressive_number_constant", `([a-z])\d+`,
			"${1}<NUM>", "digits following a lowercase letter, e.g. sda1, eth0"),
	}
}
