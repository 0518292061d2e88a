package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	vone "github.com/HardM1nd/V-One-sub000"
)

var routeTitle string
var routeWaypoints []string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List published flight routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			return err
		}

		routes, err := client.Routes(ctx)
		if err != nil {
			return err
		}
		for _, route := range routes {
			fmt.Printf("%s  %s (%d waypoints)\n", route.ID, route.Title, len(route.Waypoints))
		}
		return nil
	},
}

var routesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Publish a new flight route",
	Long: `Publish a new flight route from ordered waypoints.

Each --waypoint is NAME:LAT:LON[:ALTITUDE_FT], for example:
  vone routes add --title "Bay Tour" --waypoint KPAO:37.461:-122.115:1500 --waypoint KHAF:37.513:-122.501`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		draft := vone.RouteDraft{Title: routeTitle}
		for _, raw := range routeWaypoints {
			wp, err := parseWaypoint(raw)
			if err != nil {
				return err
			}
			draft.Waypoints = append(draft.Waypoints, wp)
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			return err
		}

		route, err := client.CreateRoute(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("published route %s\n", route.ID)
		return nil
	},
}

var routesRmCmd = &cobra.Command{
	Use:   "rm <route-id>",
	Short: "Delete a flight route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			return err
		}

		if err := client.DeleteRoute(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

func parseWaypoint(raw string) (vone.Waypoint, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return vone.Waypoint{}, fmt.Errorf("invalid waypoint %q: want NAME:LAT:LON[:ALTITUDE_FT]", raw)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return vone.Waypoint{}, fmt.Errorf("invalid waypoint latitude %q", parts[1])
	}
	lon, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return vone.Waypoint{}, fmt.Errorf("invalid waypoint longitude %q", parts[2])
	}
	wp := vone.Waypoint{Name: parts[0], Latitude: lat, Longitude: lon}
	if len(parts) == 4 {
		alt, err := strconv.Atoi(parts[3])
		if err != nil {
			return vone.Waypoint{}, fmt.Errorf("invalid waypoint altitude %q", parts[3])
		}
		wp.AltitudeFt = alt
	}
	return wp, nil
}

func init() {
	routesAddCmd.Flags().StringVar(&routeTitle, "title", "", "route title")
	routesAddCmd.Flags().StringArrayVar(&routeWaypoints, "waypoint", nil, "waypoint as NAME:LAT:LON[:ALTITUDE_FT] (repeatable)")
	_ = routesAddCmd.MarkFlagRequired("title")
	routesCmd.AddCommand(routesAddCmd)
	routesCmd.AddCommand(routesRmCmd)
	rootCmd.AddCommand(routesCmd)
}
