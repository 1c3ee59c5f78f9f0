package utils

import (
	"fmt"
	"net"
	"time"
)

func CheckPortAvailable(port int) bool {
	timeout := time.Second
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("localhost", fmt.Sprintf("%d", port)), timeout)
	if err != nil {
		// connect failed, port is free
		return true
	}
	if conn != nil {
		conn.Close()
		// connect succeeded, port is taken
		return false
	}
	return true
}

/**
 * Discover the LAN address of this host
 * @returns {string} Dotted-quad local IP, or "127.0.0.1" when discovery fails
 * @description
 * - Opens a UDP socket toward a public address; no packet is sent,
 *   the kernel just picks the outbound interface
 */
func GetLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return localAddr.IP.String()
}
